// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe markup from user-supplied content.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows basic user-generated formatting (bold, lists, links)
// and nothing that can execute script.
var policy = bluemonday.UGCPolicy()

// Sanitize returns the input with unsafe HTML removed. Plain text
// passes through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
