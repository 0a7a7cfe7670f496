package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// folder is stateless and safe for concurrent use
var folder = cases.Fold()

// Fold returns the case-folded form of s used for every name and type
// comparison in the catalog.
func Fold(s string) string {
	return folder.String(s)
}

// Title returns s title-cased for display, e.g. "breakfast" -> "Breakfast".
// Title casers keep state, so each call gets its own.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
