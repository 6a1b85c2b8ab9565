// Package translate abstracts machine-translation backends behind a small
// capability interface so the pipeline can swap providers without changes.
package translate

import "context"

// Detection is the provider's guess at the language of a text.
type Detection struct {
	Language   string
	Confidence float64
}

// Translator is implemented by each translation backend.
// Language codes are ISO 639-1 ("en", "hi", "mr", "or").
type Translator interface {
	// Detect classifies the language of text.
	Detect(ctx context.Context, text string) (Detection, error)

	// Translate converts text into target. source may be empty,
	// in which case the provider auto-detects it.
	Translate(ctx context.Context, text, target, source string) (string, error)

	// CheckHealth verifies the backend is reachable.
	CheckHealth(ctx context.Context) error
}
