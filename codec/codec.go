package codec

// Codec encodes/decodes values V to []byte for placement in a cache
// generation. Stores are byte-transparent, so whatever Encode produces is
// exactly what Decode will see back.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
