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

// DefaultModel is used when no completion model is configured.
const DefaultModel = "gpt-4o-mini"

// ResponsesProvider calls a Responses-style completion endpoint with an
// instructions/input pair.
type ResponsesProvider struct {
	endpointURL string
	model       string
	apiKey      string
	client      *http.Client
}

// NewResponsesProvider builds a provider for the given endpoint, model and key.
func NewResponsesProvider(endpoint, model, apiKey string) *ResponsesProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	return &ResponsesProvider{
		endpointURL: responsesURL(endpoint),
		model:       trimmedModel,
		apiKey:      strings.TrimSpace(apiKey),
		client:      &http.Client{},
	}
}

func (p *ResponsesProvider) Name() string {
	return "responses"
}

type responsesRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
	Input        string `json:"input"`
}

func (p *ResponsesProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p == nil {
		return nil, fmt.Errorf("responses provider is nil")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if p.apiKey == "" {
		return nil, &Error{Reason: ReasonConfig, Detail: "completion API key is not configured"}
	}

	body, err := json.Marshal(responsesRequest{
		Model:        p.model,
		Instructions: Instruction(req.TargetLanguage),
		Input:        text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Reason:     ReasonHTTP,
			StatusCode: resp.StatusCode,
			Detail:     parseErrorMessage(respBody),
		}
	}

	translated := strings.TrimSpace(extractOutputText(respBody))
	if translated == "" {
		return nil, &Error{Reason: ReasonEmpty, Detail: "response carried no output text"}
	}

	return &Response{
		Text:         translated,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
