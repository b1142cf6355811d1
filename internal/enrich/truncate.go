// Package enrich backfills writer profile details (headshot and bio)
// for writers already present in the store.
package enrich

import "strings"

// DefaultBioLimit is the stored bio length cap in runes.
const DefaultBioLimit = 500

// Sentence enders are tried in this order; the first whose last
// occurrence lands in the back half of the window wins, so a period
// beats a later exclamation or question mark.
var sentenceEnders = []string{". ", "! ", "? "}

// TruncateBio shortens a bio to at most limit runes. It prefers to cut
// at a sentence boundary in the back half of the window; failing that it
// cuts at a word boundary, also only in the back half, and appends an
// ellipsis.
func TruncateBio(bio string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(bio)
	if len(runes) <= limit {
		return bio
	}
	window := string(runes[:limit])

	for _, ender := range sentenceEnders {
		if i := strings.LastIndex(window, ender); i > limit/2 {
			return strings.TrimSpace(window[:i+1])
		}
	}

	if i := strings.LastIndex(window, " "); i > limit/2 {
		return strings.TrimSpace(window[:i]) + "..."
	}
	return strings.TrimSpace(window) + "..."
}
