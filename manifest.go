package offcache

import (
	"github.com/tidwall/gjson"
)

// SeedsFromManifest extracts seedable resource paths from a web app manifest
// (start_url plus every icons[].src), appends extra, and dedups while
// keeping first-seen order. Missing or malformed fields are skipped.
func SeedsFromManifest(manifest []byte, extra ...string) []string {
	var seeds []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		seeds = append(seeds, s)
	}

	add(gjson.GetBytes(manifest, "start_url").String())
	for _, icon := range gjson.GetBytes(manifest, "icons").Array() {
		add(icon.Get("src").String())
	}
	for _, s := range extra {
		add(s)
	}
	return seeds
}
