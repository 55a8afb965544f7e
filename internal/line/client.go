package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is the platform's messaging API base URL.
const DefaultEndpoint = "https://api.line.me"

const defaultSendTimeout = 10 * time.Second

// Client sends reply and push messages with channel bearer auth.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   zerolog.Logger
}

// NewClient builds a messaging client. An empty token is allowed: delivery
// is then skipped with a warning instead of failing the caller.
func NewClient(endpoint, token string, logger zerolog.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if base == "" {
		base = DefaultEndpoint
	}
	return &Client{
		endpoint: base,
		token:    strings.TrimSpace(token),
		client:   &http.Client{Timeout: defaultSendTimeout},
		logger:   logger,
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// Reply answers the inbound event identified by replyToken.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: MessageTypeText, Text: text}},
	})
}

// Push sends an out-of-band message to a user, group or room.
func (c *Client) Push(ctx context.Context, to, text string) error {
	return c.post(ctx, "/v2/bot/message/push", pushRequest{
		To:       to,
		Messages: []textMessage{{Type: MessageTypeText, Text: text}},
	})
}

// Deliver routes text back to the conversation that produced the event.
// A reply token is preferred; a failed reply falls back to push. With no
// token and no resolvable push target there is nothing to deliver to.
func (c *Client) Deliver(ctx context.Context, ev Event, text string) error {
	if c == nil {
		return fmt.Errorf("line client is nil")
	}
	if c.token == "" {
		c.logger.Warn().Msg("channel access token is not configured, skipping delivery")
		return nil
	}

	token := strings.TrimSpace(ev.ReplyToken)
	if token != "" {
		err := c.Reply(ctx, token, text)
		if err == nil {
			return nil
		}
		c.logger.Warn().Err(err).Msg("reply failed, falling back to push")
	}

	target := ev.PushTarget()
	if target == "" {
		c.logger.Warn().Msg("no reply token and no push target, dropping message")
		return nil
	}
	if err := c.Push(ctx, target, text); err != nil {
		return fmt.Errorf("push to %s: %w", target, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("messaging API status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
