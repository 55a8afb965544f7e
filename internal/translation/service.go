package translation

import (
	"context"
	"fmt"
)

// Provider translates one chunk of text through a completion API.
type Provider interface {
	Translate(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// Request describes one translation request.
type Request struct {
	Text           string
	TargetLanguage string // English name, for example "Thai"
}

// Response contains translated text and provider metadata.
type Response struct {
	Text         string
	ProviderName string
	LatencyMs    int64
}

// Instruction builds the single instruction string sent with every chunk.
func Instruction(targetLanguage string) string {
	return fmt.Sprintf("Translate to %s. Output translation only.", targetLanguage)
}
