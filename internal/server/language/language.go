// Package language maps the short language codes used by clients to the full
// names embedded in agent prompts.
package language

import (
	"unicode"
	"unicode/utf8"
)

// Auto means "detect the source language".
const Auto = "auto"

var names = map[string]string{
	"en":   "English",
	"es":   "Spanish",
	"fr":   "French",
	"de":   "German",
	"it":   "Italian",
	"pt":   "Portuguese",
	"ja":   "Japanese",
	"zh":   "Chinese",
	"ko":   "Korean",
	"ru":   "Russian",
	"ar":   "Arabic",
	"hi":   "Hindi",
	"auto": Auto,
}

// Expand returns the full name for a known code. Empty input is "auto";
// capitalized names and unknown codes come back unchanged.
func Expand(code string) string {
	if code == "" {
		return Auto
	}
	if r, _ := utf8.DecodeRuneInString(code); unicode.IsUpper(r) {
		return code
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
