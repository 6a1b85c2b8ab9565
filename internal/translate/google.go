package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator calls the free web translation endpoint (the one the
// googletrans client uses). No credentials required.
type GoogleTranslator struct {
	Endpoint string
	Client   *http.Client
}

func NewGoogleTranslator() *GoogleTranslator {
	return &GoogleTranslator{
		Endpoint: googleEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleTranslator) call(ctx context.Context, text, target, source string) ([]any, error) {
	if g.Client == nil {
		return nil, errors.New("google translate: http client is nil")
	}
	if source == "" {
		source = "auto"
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google translate: status %d", resp.StatusCode)
	}

	// The endpoint answers with a bare nested JSON array:
	// [[[translated, original, ...], ...], ..., detectedLang, ..., confidence]
	var decoded []any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, target, source string) (string, error) {
	decoded, err := g.call(ctx, text, target, source)
	if err != nil {
		return "", err
	}
	if len(decoded) == 0 {
		return "", errors.New("google translate: empty response")
	}

	segments, ok := decoded[0].([]any)
	if !ok {
		return "", errors.New("google translate: unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	out := b.String()
	if out == "" {
		return "", errors.New("google translate: no translation in response")
	}
	return out, nil
}

func (g *GoogleTranslator) Detect(ctx context.Context, text string) (Detection, error) {
	decoded, err := g.call(ctx, text, "en", "auto")
	if err != nil {
		return Detection{}, err
	}

	det := Detection{Language: "en"}
	if len(decoded) > 2 {
		if s, ok := decoded[2].(string); ok && s != "" {
			det.Language = normalizeCode(s)
		}
	}
	if len(decoded) > 6 {
		if f, ok := decoded[6].(float64); ok {
			det.Confidence = f
		}
	}
	if det.Confidence == 0 {
		// Older response shapes omit the confidence slot; the language
		// field alone is still a firm answer from the provider.
		det.Confidence = 1
	}
	return det, nil
}

func (g *GoogleTranslator) CheckHealth(ctx context.Context) error {
	_, err := g.Detect(ctx, "ping")
	return err
}

// normalizeCode reduces BCP 47 tags ("hi-IN") to their ISO 639-1 base.
func normalizeCode(code string) string {
	code = strings.ToLower(code)
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	return code
}
