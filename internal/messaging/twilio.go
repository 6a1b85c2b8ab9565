// Package messaging pushes replies through the Twilio WhatsApp delivery API
// and renders the channel-native TwiML acknowledgement markup.
package messaging

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBase = "https://api.twilio.com/2010-04-01"

type TwilioClient struct {
	SID     string
	Token   string
	From    string
	BaseURL string
	Client  *http.Client
}

func NewTwilioClient(sid, token, from string) *TwilioClient {
	return &TwilioClient{
		SID:     sid,
		Token:   token,
		From:    from,
		BaseURL: apiBase,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send pushes one message to a WhatsApp handle. Best effort: the caller is
// expected to log and swallow errors.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	if c.Client == nil {
		return errors.New("twilio: http client is nil")
	}
	if c.SID == "" || c.Token == "" {
		return errors.New("twilio: credentials not configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", strings.TrimRight(c.BaseURL, "/"), c.SID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.SID, c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("twilio: %s", msg)
	}
	return nil
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// AckTwiML renders the webhook acknowledgement markup Twilio expects.
func AckTwiML(message string) string {
	b, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		// struct marshalling cannot realistically fail; keep the webhook alive
		return "<Response><Message>" + message + "</Message></Response>"
	}
	return xml.Header + string(b)
}
