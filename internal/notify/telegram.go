// Package notify delivers best-effort messages to a Telegram chat.
package notify

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

// Notifier is a one-way, best-effort message send. Callers log and swallow
// failures; a Send error must never abort the operation that produced the
// message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Send(context.Context, string) error { return nil }

const defaultAPIBase = "https://api.telegram.org"

// Telegram sends messages through the Bot API.
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	httpc   *http.Client
}

func NewTelegram(token, chatID string) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, errors.New("telegram chat id is empty")
	}
	return &Telegram{
		token:   strings.TrimSpace(token),
		chatID:  strings.TrimSpace(chatID),
		apiBase: defaultAPIBase,
		httpc:   &http.Client{Timeout: 12 * time.Second},
	}, nil
}

// apiResponse is the common Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *Telegram) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/bot%s/%s?%s", t.apiBase, t.token, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		if out.Description == "" {
			return nil, fmt.Errorf("telegram: http %d", resp.StatusCode)
		}
		return nil, errors.New("telegram: " + out.Description)
	}
	return out.Result, nil
}

// Send posts text to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	return t.SendTo(ctx, t.chatID, text)
}

// SendTo posts text to an arbitrary chat (used by the agent bot for replies).
func (t *Telegram) SendTo(ctx context.Context, chatID, text string) error {
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("text", text)
	_, err := t.call(ctx, "sendMessage", params)
	return err
}
