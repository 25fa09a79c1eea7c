package codec

import "encoding/json"

// JSONCodec serializes snapshots with encoding/json. Slower and larger than
// the binary codecs but the stored bytes stay human-readable, which helps
// when inspecting a shared store by hand.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSONCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
