package offcache

const (
	DefaultAPIPrefix        = "/api/"
	DefaultShellPath        = "/"
	DefaultMaxSnapshotBytes = 8 << 20
)

// HeaderFromCache marks responses served from a generation instead of the
// network; its value is the generation name. Never set on network or
// synthetic responses.
const HeaderFromCache = "X-From-Cache"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
