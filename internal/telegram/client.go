// Package telegram is a minimal Bot API client covering the three calls the
// bot needs: getMe, getUpdates and sendMessage.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		// The long poll below runs up to 30s server-side; leave headroom.
		http: &http.Client{Timeout: 40 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SourceTag returns the last few characters of the bot token, the short
// identifier used in logs and audit rows. The full token never leaves the
// client.
func (c *Client) SourceTag() string {
	if len(c.token) <= 5 {
		return c.token
	}
	return c.token[len(c.token)-5:]
}

// GetMe verifies the token and returns the bot's own user record.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var user User
	if err := c.get(ctx, "getMe", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUpdates long-polls for updates with update_id >= offset, waiting up to
// timeout server-side. A poll that times out with nothing new yields an empty
// slice, not an error.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.FormatInt(int64(timeout/time.Second), 10))
	params.Set("allowed_updates", `["message"]`)

	var updates []Update
	if err := c.get(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a MarkdownV2-formatted message. If the API rejects the
// formatted text, it retries once as plain text with the escapes stripped so
// the caller still gets a readable reply.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.send(ctx, chatID, text, "MarkdownV2"); err == nil {
		return nil
	}
	return c.send(ctx, chatID, strings.ReplaceAll(text, `\`, ""), "")
}

func (c *Client) send(ctx context.Context, chatID int64, text, parseMode string) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "sendMessage", nil)
}

func (c *Client) get(ctx context.Context, method string, params url.Values, result any) error {
	u := c.methodURL(method)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return c.do(req, method, result)
}

func (c *Client) do(req *http.Request, method string, result any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var api struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("telegram %s: api error: %s", method, api.Description)
	}
	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}
