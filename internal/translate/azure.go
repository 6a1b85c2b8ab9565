package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AzureTranslator calls the Azure Cognitive Services Translator REST API.
// Requires a subscription key; region is needed for regional resources.
type AzureTranslator struct {
	Key      string
	Endpoint string
	Region   string
	Client   *http.Client
}

func NewAzureTranslator(key, endpoint, region string) *AzureTranslator {
	if endpoint == "" {
		endpoint = "https://api.cognitive.microsofttranslator.com"
	}
	return &AzureTranslator{
		Key:      key,
		Endpoint: strings.TrimRight(endpoint, "/"),
		Region:   region,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *AzureTranslator) post(ctx context.Context, path string, query url.Values, text string, out any) error {
	if a.Client == nil {
		return errors.New("azure translate: http client is nil")
	}
	if a.Key == "" {
		return errors.New("azure translate: subscription key is required")
	}

	query.Set("api-version", "3.0")

	body, err := json.Marshal([]map[string]string{{"Text": text}})
	if err != nil {
		return err
	}

	u := a.Endpoint + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.Key)
	if a.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", a.Region)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("azure translate: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *AzureTranslator) Detect(ctx context.Context, text string) (Detection, error) {
	var decoded []struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	}
	if err := a.post(ctx, "/detect", url.Values{}, text, &decoded); err != nil {
		return Detection{}, err
	}
	if len(decoded) == 0 {
		return Detection{}, errors.New("azure translate: empty detect response")
	}
	return Detection{
		Language:   normalizeCode(decoded[0].Language),
		Confidence: decoded[0].Score,
	}, nil
}

func (a *AzureTranslator) Translate(ctx context.Context, text, target, source string) (string, error) {
	q := url.Values{}
	q.Set("to", target)
	if source != "" {
		q.Set("from", source)
	}

	var decoded []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := a.post(ctx, "/translate", q, text, &decoded); err != nil {
		return "", err
	}
	if len(decoded) == 0 || len(decoded[0].Translations) == 0 {
		return "", errors.New("azure translate: empty translate response")
	}
	return decoded[0].Translations[0].Text, nil
}

func (a *AzureTranslator) CheckHealth(ctx context.Context) error {
	_, err := a.Detect(ctx, "ping")
	return err
}
