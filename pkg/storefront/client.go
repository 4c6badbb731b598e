package storefront

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client delivers stock announcements to the storefront catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

func NewClient(baseURL, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		secret:  secret,
	}
}

// sign computes the hex HMAC-SHA256 of the request body.
func (c *Client) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Announce POSTs a stock announcement to the storefront callback URL.
// It returns the HTTP status and response body so callers can record the
// attempt regardless of outcome.
func (c *Client) Announce(ctx context.Context, payload *StockAnnouncement) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("failed to marshal announcement: %w", err)
	}
	return c.Deliver(ctx, payload.Event, body)
}

// Deliver sends a raw, already marshaled payload. The outbox retry path
// uses this so the signature is recomputed over the exact stored bytes.
func (c *Client) Deliver(ctx context.Context, event string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Callback-Signature", "sha256="+c.sign(body))
	req.Header.Set("X-Callback-Event", event)
	req.Header.Set("X-Callback-Timestamp", time.Now().Format(time.RFC3339))

	log.Debug().
		Str("url", c.baseURL).
		Str("event", event).
		Msg("Sending stock announcement")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to send announcement: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, string(respBody), nil
}
