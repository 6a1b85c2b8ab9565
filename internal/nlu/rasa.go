// Package nlu is a thin client for the Rasa NLU model-parse endpoint.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Entity is one classifier-extracted (type, value) pair.
type Entity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
}

// Result is the classifier output for one utterance.
type Result struct {
	Intent     string
	Confidence float64
	Entities   []Entity
}

// EntityValue returns the value of the first entity of the given type.
func (r Result) EntityValue(entityType string) (string, bool) {
	for _, e := range r.Entities {
		if e.Entity != entityType {
			continue
		}
		if s, ok := e.Value.(string); ok {
			return strings.TrimSpace(s), true
		}
		if e.Value != nil {
			return strings.TrimSpace(fmt.Sprint(e.Value)), true
		}
	}
	return "", false
}

type Client struct {
	URL    string
	Client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

type parseResp struct {
	Intent struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Parse sends raw text to the classifier and returns (intent, confidence, entities).
func (c *Client) Parse(ctx context.Context, text string) (Result, error) {
	if c.Client == nil {
		return Result{}, errors.New("nlu: http client is nil")
	}

	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(b))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("nlu: status %d", resp.StatusCode)
	}

	var decoded parseResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, err
	}

	return Result{
		Intent:     decoded.Intent.Name,
		Confidence: decoded.Intent.Confidence,
		Entities:   decoded.Entities,
	}, nil
}
