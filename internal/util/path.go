package util

import "strings"

// maxPathLength bounds file paths stored in a registry document.
const maxPathLength = 512

// ValidatePath reports whether a file path or install target is safe to
// store and serve. Registry documents carry user-supplied paths, so every
// path must be re-checked on both write and read.
//
// Accepted: relative project paths ("components/button.tsx") and
// home-anchored install targets ("~/AGENTS.md").
//
// Rejected: absolute paths, parent traversal ("..") in any segment,
// NUL bytes, backslashes, drive-letter separators, and empty segments.
func ValidatePath(p string) bool {
	if p == "" || len(p) > maxPathLength {
		return false
	}
	if strings.ContainsAny(p, "\x00\\:") {
		return false
	}
	if strings.HasPrefix(p, "/") {
		return false
	}

	// A single leading "~/" anchors install targets to the project home.
	rest := strings.TrimPrefix(p, "~/")
	if rest == "" || strings.HasPrefix(rest, "/") {
		return false
	}

	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
