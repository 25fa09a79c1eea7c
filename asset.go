package offcache

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/unkn0wn-root/offcache/internal/util"
)

// assetRoundTrip is network-first. A cacheable success is snapshotted in the
// background and served; any other success passes through untouched. On
// network failure the cached entry is served, then the app shell for HTML
// requests, then a synthetic offline response.
func (c *Cache) assetRoundTrip(req *http.Request) (*http.Response, error) {
	key := util.RequestKey(req.Method, req.URL)

	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return c.assetFallback(req, key, err), nil
	}
	if !c.cacheable(req, resp, key) {
		return resp, nil
	}

	body, more, err := readLimited(resp.Body, c.maxBytes)
	if err != nil {
		// stream died mid-body; same recovery as a failed connect
		resp.Body.Close()
		return c.assetFallback(req, key, err), nil
	}
	if more {
		c.hooks.SnapshotRejected(key, "too_large")
		rest := resp.Body
		resp.Body = overflowBody{io.MultiReader(bytes.NewReader(body), rest), rest}
		return resp, nil
	}
	resp.Body.Close()

	e := Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	c.storeAsync(req.Context(), key, e)
	return e.Response(req), nil
}

// cacheable reports whether the response may populate the cache: a plain 200
// from the configured origin. The inner transport never follows redirects,
// so a 200 here is structurally final; a redirect shows up as its own 3xx
// status and is refused.
func (c *Cache) cacheable(req *http.Request, resp *http.Response, key string) bool {
	if resp.StatusCode != http.StatusOK {
		c.hooks.SnapshotRejected(key, "status")
		return false
	}
	if !c.sameOrigin(req.URL) {
		c.hooks.SnapshotRejected(key, "cross_origin")
		return false
	}
	return true
}

func (c *Cache) sameOrigin(u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, c.origin.Scheme) {
		return false
	}
	return util.CanonicalHost(u.Scheme, u.Host) == c.originHost
}

func (c *Cache) assetFallback(req *http.Request, key string, cause error) *http.Response {
	c.log.Debug("asset network failed", Fields{"key": key, "err": cause})

	if e, gen, ok := c.lookup(req.Context(), key); ok {
		c.hooks.FallbackServed(key, "entry")
		resp := e.Response(req)
		resp.Header.Set(HeaderFromCache, gen)
		return resp
	}
	if acceptsHTML(req) {
		if e, gen, ok := c.lookup(req.Context(), c.shellKey); ok {
			c.hooks.FallbackServed(key, "shell")
			resp := e.Response(req)
			resp.Header.Set(HeaderFromCache, gen)
			return resp
		}
		c.hooks.FallbackServed(key, "offline_html")
		return synthetic(req, "text/plain; charset=utf-8", offlineHTMLBody)
	}
	c.hooks.FallbackServed(key, "offline_asset")
	return synthetic(req, "text/plain; charset=utf-8", offlineAssetBody)
}

// readLimited drains r up to limit bytes (0 = unlimited). When the body is
// larger, the bytes read so far come back with more=true and the rest of r
// left unconsumed.
func readLimited(r io.Reader, limit int64) (b []byte, more bool, err error) {
	if limit <= 0 {
		b, err = io.ReadAll(r)
		return b, false, err
	}
	b, err = io.ReadAll(io.LimitReader(r, limit))
	if err != nil || int64(len(b)) < limit {
		return b, false, err
	}
	var probe [1]byte
	n, perr := io.ReadFull(r, probe[:])
	if n > 0 {
		return append(b, probe[0]), true, nil
	}
	if perr == io.EOF {
		return b, false, nil
	}
	return b, false, perr
}

// overflowBody re-stitches an oversized response: the probed prefix followed
// by the unread remainder, closing the original body.
type overflowBody struct {
	io.Reader
	io.Closer
}
