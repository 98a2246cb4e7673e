// Package validate holds the input format checks shared by the admin
// write handlers and the importer.
package validate

import (
	"net/url"
	"regexp"
)

// MaxClipSeconds caps a single clip's length.
const MaxClipSeconds = 300

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// AnimeName reports whether name is a valid series slug:
// lowercase alphanumeric, underscores, hyphens.
func AnimeName(name string) bool {
	return slugPattern.MatchString(name)
}

// ClipTiming reports whether a start/end offset pair is usable:
// non-negative start, end strictly after start, at most MaxClipSeconds long.
func ClipTiming(start, end float64) bool {
	if start < 0 {
		return false
	}
	if end <= start {
		return false
	}
	if end-start > MaxClipSeconds {
		return false
	}
	return true
}

// URL reports whether raw is an absolute http(s) URL.
func URL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
