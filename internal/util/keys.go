package util

import (
	"net/url"
	"strings"
)

// RequestKey returns the canonical cache key for (method, URL).
// Normalization: method uppercased; scheme and host lowercased; default
// ports dropped; empty path becomes "/"; the fragment is discarded; the
// query is kept verbatim (asset URLs carry cache-busting queries that must
// key separate entries).
func RequestKey(method string, u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := CanonicalHost(scheme, u.Host)

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.Grow(len(method) + len(scheme) + len(host) + len(path) + len(u.RawQuery) + 5)
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	return b.String()
}

// CanonicalHost lowercases host and strips the scheme's default port.
func CanonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	return host
}
