// Package htmlsanitize strips unsafe HTML from user-generated content.
// Discussion and reply bodies pass through Sanitize before they are
// stored; everything else (titles, names, guidelines) is treated as
// plain text and escaped at render time by clients.
package htmlsanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

// ugcPolicy returns the shared sanitization policy: bluemonday's UGC
// baseline (paragraphs, emphasis, lists, links with rel=nofollow) plus
// tables, which discussion bodies commonly use.
func ugcPolicy() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowTables()
		policy = p
	})
	return policy
}

// Sanitize returns s with unsafe markup removed. Safe formatting tags
// are preserved as-is; script, event handlers and javascript: URLs are
// stripped.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugcPolicy().Sanitize(s)
}
