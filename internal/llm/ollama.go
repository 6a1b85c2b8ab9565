// Package llm is the client for the Ollama text-generation endpoint.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	URL    string
	Model  string
	Client *http.Client
}

func NewClient(url, model string) *Client {
	if url == "" {
		url = "http://127.0.0.1:11434/api/generate"
	}
	if model == "" {
		model = "medllama2"
	}
	return &Client{
		URL:    url,
		Model:  model,
		Client: &http.Client{Timeout: 20 * time.Second},
	}
}

type generateReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateLine struct {
	Response string `json:"response"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate sends a prompt and aggregates the newline-delimited JSON stream
// into a single reply. Malformed lines are kept as raw text rather than
// failing the whole request.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Client == nil {
		return "", errors.New("ollama: http client is nil")
	}

	b, err := json.Marshal(generateReq{Model: c.Model, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: status %d", resp.StatusCode)
	}

	sc := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 2*1024*1024)

	var reply strings.Builder
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var decoded generateLine
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			// not JSON: keep the raw line
			reply.WriteString(line)
			reply.WriteString("\n")
			continue
		}
		if decoded.Error != "" {
			return "", errors.New(decoded.Error)
		}
		if decoded.Response != "" {
			reply.WriteString(decoded.Response)
		} else if decoded.Text != "" {
			reply.WriteString(decoded.Text)
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	return strings.TrimSpace(reply.String()), nil
}
