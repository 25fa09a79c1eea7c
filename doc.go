// Package offcache implements an offline-capable HTTP response cache with
// lifecycle-managed generations. It intercepts outbound requests as an
// http.RoundTripper, classifies each one, and applies exactly one strategy:
//
//   - Bypass: non-GET or non-http(s) requests are forwarded untouched.
//   - API: requests under the API prefix are network-only; a transport
//     failure yields a synthetic JSON offline response, never a cached one.
//   - Asset: network-first; a same-origin 200 is snapshotted into the active
//     generation in the background, and on network failure the cached entry,
//     then the app shell, then a synthetic response is served.
//
// Components:
//   - store.Store: byte store of named generations (in-process map by
//     default; Redis, BigCache and Ristretto backends included).
//   - codec.Codec[Entry]: (de)serializes snapshots. WireCodec by default.
//   - Lifecycle: owns the active-generation identity. Install seeds a new
//     generation all-or-nothing; Activate purges stale generations and takes
//     control.
//
// Keys:
//
//	GET https://host/path?query - normalized request identity
//
// Deploy pattern:
//
//	oc, _ := offcache.New(offcache.Options{
//		Version: "v42",
//		Origin:  "https://app.example.com",
//		Seeds:   []string{"/", "/manifest.json", "/static/app.js"},
//	})
//	_ = oc.Lifecycle().Install(ctx)  // fetch and store the seed set
//	_ = oc.Lifecycle().Activate(ctx) // purge old generations, take control
//	client := oc.Client()            // *http.Client routed through the cache
package offcache
