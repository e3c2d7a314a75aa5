package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// strips spaces, NFC normalizes so length checks count what the user typed
func CleanupString(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// uppercase first letter of every word, for page headings
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
