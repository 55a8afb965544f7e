package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatProvider calls an OpenAI-compatible chat completions endpoint with a
// role-tagged message list. It is the one provider variant that retries:
// transport failures are retried up to the configured count, HTTP errors
// and empty responses are not.
type ChatProvider struct {
	endpointURL string
	model       string
	apiKey      string
	retries     int
	client      *http.Client
}

// NewChatProvider builds a chat completions provider.
func NewChatProvider(endpoint, model, apiKey string, retries int) *ChatProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	if retries < 0 {
		retries = 0
	}
	return &ChatProvider{
		endpointURL: chatCompletionsURL(endpoint),
		model:       trimmedModel,
		apiKey:      strings.TrimSpace(apiKey),
		retries:     retries,
		client:      &http.Client{},
	}
}

func (p *ChatProvider) Name() string {
	return "chat"
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *ChatProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p == nil {
		return nil, fmt.Errorf("chat provider is nil")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if p.apiKey == "" {
		return nil, &Error{Reason: ReasonConfig, Detail: "completion API key is not configured"}
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: Instruction(req.TargetLanguage)},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()

	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		translated, err := p.send(ctx, body)
		if err == nil {
			return &Response{
				Text:         translated,
				ProviderName: p.Name(),
				LatencyMs:    time.Since(started).Milliseconds(),
			}, nil
		}
		lastErr = err
		if ReasonOf(err) != ReasonNetwork || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (p *ChatProvider) send(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{
			Reason:     ReasonHTTP,
			StatusCode: resp.StatusCode,
			Detail:     parseErrorMessage(respBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Reason: ReasonEmpty, Detail: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Reason: ReasonEmpty, Detail: "response missing choices"}
	}
	translated := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if translated == "" {
		return "", &Error{Reason: ReasonEmpty, Detail: "response content was empty"}
	}
	return translated, nil
}
