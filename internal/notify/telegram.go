package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contentpilot/pkg/httputil"
)

const (
	telegramBaseURL = "https://api.telegram.org/bot"
	telegramTimeout = 35 * time.Second
)

// Telegram sends messages through the Bot API.
type Telegram struct {
	httpClient httputil.Doer
	baseURL    string
	chatID     int64
}

var _ Notifier = (*Telegram)(nil)

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{
		httpClient: httputil.NewRetryClient(&http.Client{Timeout: telegramTimeout}, httputil.RetryConfig{}),
		baseURL:    telegramBaseURL + token,
		chatID:     chatID,
	}
}

func (t *Telegram) Notify(ctx context.Context, event Event) error {
	text := event.Subject
	if event.Body != "" {
		text = fmt.Sprintf("*%s*\n\n%s", escapeMarkdown(event.Subject), escapeMarkdown(event.Body))
	}
	return t.SendMessage(ctx, t.chatID, text)
}

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	_, err := t.call(ctx, http.MethodPost, "/sendMessage", payload)
	return err
}

type update struct {
	Message *struct {
		Chat *struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"chat"`
		From *struct {
			FirstName string `json:"first_name"`
			UserName  string `json:"username"`
		} `json:"from"`
	} `json:"message"`
}

// ChatID returns the chat of the most recent message sent to the bot, so the
// setup wizard can discover where alerts should go.
func (t *Telegram) ChatID(ctx context.Context) (int64, string, error) {
	raw, err := t.call(ctx, http.MethodGet, "/getUpdates?offset=0", nil)
	if err != nil {
		return 0, "", fmt.Errorf("get updates: %w", err)
	}

	var updates []update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return 0, "", fmt.Errorf("parse updates: %w", err)
	}

	for i := len(updates) - 1; i >= 0; i-- {
		msg := updates[i].Message
		if msg == nil || msg.Chat == nil {
			continue
		}
		name := msg.Chat.Title
		if name == "" && msg.From != nil {
			name = msg.From.FirstName
			if msg.From.UserName != "" {
				name += " (@" + msg.From.UserName + ")"
			}
		}
		return msg.Chat.ID, name, nil
	}
	return 0, "", fmt.Errorf("no messages found, send a message to the bot first")
}

func (t *Telegram) call(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Ok          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Ok {
		return nil, fmt.Errorf("telegram error: %s", result.Description)
	}
	return result.Result, nil
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
