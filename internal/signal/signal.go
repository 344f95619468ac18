// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package signal flags collected items that are likely market-moving. The
// classifier is a pure substring match against per-language keyword lists;
// each adapter owns its list and lists are never shared across languages
// (an English substring hit inside Korean text means nothing).
package signal

import "strings"

// Match reports whether text contains any of the keywords. foldCase enables
// case-insensitive matching for English sources; Korean sources match exact
// substrings because Hangul has no case to fold. Empty or whitespace-only
// text never matches.
func Match(text string, keywords []string, foldCase bool) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if foldCase {
		t = strings.ToLower(t)
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if foldCase {
			kw = strings.ToLower(kw)
		}
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
