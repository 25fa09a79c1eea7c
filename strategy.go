package offcache

import (
	"net/http"
	"strings"

	"github.com/unkn0wn-root/offcache/internal/util"
)

type mode int

const (
	modeBypass mode = iota // forward untouched
	modeAPI                // network-only, synthetic offline JSON on failure
	modeAsset              // network-first with cache fallback
)

func (m mode) String() string {
	switch m {
	case modeAPI:
		return "api"
	case modeAsset:
		return "asset"
	default:
		return "bypass"
	}
}

// classify is deterministic and side-effect free, evaluated in order:
// non-GET methods bypass, non-http(s) schemes bypass, API-prefixed paths go
// to the API strategy, everything else is an asset.
func (c *Cache) classify(req *http.Request) mode {
	if req.Method != http.MethodGet {
		return modeBypass
	}
	if s := req.URL.Scheme; s != "http" && s != "https" {
		return modeBypass
	}
	if strings.HasPrefix(req.URL.Path, c.apiPrefix) {
		return modeAPI
	}
	return modeAsset
}

const (
	offlineAPIBody   = `{"error":"You are currently offline. Please check your connection."}`
	offlineHTMLBody  = "Network error. App is offline."
	offlineAssetBody = "Resource unavailable offline."
)

// apiRoundTrip is network-only. API responses never touch the store; a
// transport failure yields a synthetic JSON body instead of an error.
func (c *Cache) apiRoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.transport.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	key := util.RequestKey(req.Method, req.URL)
	c.log.Debug("api offline fallback", Fields{"key": key, "err": err})
	c.hooks.FallbackServed(key, "offline_api")
	return synthetic(req, "application/json", offlineAPIBody), nil
}

func synthetic(req *http.Request, contentType, body string) *http.Response {
	h := make(http.Header, 1)
	h.Set("Content-Type", contentType)
	return Entry{Status: http.StatusServiceUnavailable, Header: h, Body: []byte(body)}.Response(req)
}

func acceptsHTML(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
