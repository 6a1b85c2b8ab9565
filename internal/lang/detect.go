// Package lang classifies raw input text into a coarse language tag
// using Unicode script ranges and a small Marathi keyword list.
package lang

import "strings"

const (
	English = "en"
	Hindi   = "hi"
	Marathi = "mr"
	Odia    = "or"
)

// Hindi and Marathi share the Devanagari script, so Devanagari text is
// assumed Hindi unless one of these common Marathi words appears.
var marathiMarkers = []string{
	"आहे", "मी", "तू", "आम्ही", "तुम्ही", "ते", "त्या", "करतो", "करते",
}

// Detect returns "or", "mr", "hi" or "en". Odia wins over Devanagari;
// Devanagari without a Marathi marker defaults to Hindi.
func Detect(text string) string {
	devanagari := false
	for _, r := range text {
		if r >= 0x0B00 && r <= 0x0B7F {
			return Odia
		}
		if r >= 0x0900 && r <= 0x097F {
			devanagari = true
		}
	}
	if devanagari {
		for _, marker := range marathiMarkers {
			if strings.Contains(text, marker) {
				return Marathi
			}
		}
		return Hindi
	}
	return English
}

var names = map[string]string{
	English: "English",
	Hindi:   "Hindi",
	Marathi: "Marathi",
	Odia:    "Odia",
}

// Name returns the display name for a supported language code,
// or the code itself if unknown.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Supported reports whether code is one of the languages this service handles.
func Supported(code string) bool {
	_, ok := names[code]
	return ok
}
