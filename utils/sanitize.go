package utils

import "github.com/microcosm-cc/bluemonday"

var (
	// ugc keeps the formatting tags article text blocks are allowed to carry.
	ugc = bluemonday.UGCPolicy()
	// strict strips all markup; used for titles, highlight text, and notes.
	strict = bluemonday.StrictPolicy()
)

// SanitizeHTML cleans rich content to prevent stored XSS.
func SanitizeHTML(input string) string {
	return ugc.Sanitize(input)
}

// SanitizeText strips all markup from plain-text fields.
func SanitizeText(input string) string {
	return strict.Sanitize(input)
}
