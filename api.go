package offcache

import (
	"net/http"

	"github.com/unkn0wn-root/offcache/codec"
	"github.com/unkn0wn-root/offcache/store"
)

// Options tune the response cache. Only Version and Origin are required;
// others have sensible defaults.
type Options struct {
	// Required
	Version string // generation name, e.g. a release tag "v42"
	Origin  string // absolute base URL of the app, e.g. "https://app.example.com"

	// Seeds are fetched and stored by Install to guarantee minimal offline
	// functionality (shell document, manifest, icon assets). Paths are
	// resolved against Origin; absolute URLs are taken as-is.
	Seeds []string

	Store            store.Store        // nil => in-process local store
	Codec            codec.Codec[Entry] // nil => WireCodec
	Transport        http.RoundTripper  // inner transport; nil => http.DefaultTransport
	APIPrefix        string             // path prefix routed to the API strategy; "" => "/api/"
	ShellPath        string             // app shell served to offline HTML requests; "" => "/"
	Logger           Logger             // if nil, NopLogger is used
	Hooks            Hooks              // if nil, NopHooks is used
	Disabled         bool               // default false (enabled); disabled forwards everything untouched
	MaxSnapshotBytes int64              // per-entry body cap; 0 => 8 MiB, negative => unlimited
}

func New(opts Options) (*Cache, error) {
	return newCache(opts)
}
