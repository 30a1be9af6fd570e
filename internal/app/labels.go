package app

import "strings"

// LabelFor maps a reservation type value to its display label. Unknown values
// fall back to regular dining, so the stored label is never free text from
// the client.
func LabelFor(value string) string {
	switch strings.ToLower(value) {
	case "ayce":
		return "All You Can Eat (AYCE)"
	case "christmas":
		return "Christmas Menu (inc Christmas Day)"
	default:
		return "Regular Dining"
	}
}
