// Package bot orchestrates inbound chat events: filtering, direction
// detection, segmentation, translation and delivery.
package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/relay/internal/config"
	"horse.fit/relay/internal/direction"
	"horse.fit/relay/internal/langdetect"
	"horse.fit/relay/internal/line"
	"horse.fit/relay/internal/segment"
	"horse.fit/relay/internal/translation"
)

const (
	// diagCommand triggers the operator-only self-test reply.
	diagCommand = "/diag"
	// noTranslatePrefix marks messages that must not be translated.
	noTranslatePrefix = "//"
	// minTranslateRunes suppresses reaction-only replies (emoji,
	// stickers represented as short text).
	minTranslateRunes = 3

	// FailureNotice is the single generic user-facing failure message.
	// Upstream detail never reaches end users on the normal path.
	FailureNotice = "Translation failed. Please try again, or split the message into smaller parts."
)

// Deliverer routes reply text back to the conversation behind an event.
type Deliverer interface {
	Deliver(ctx context.Context, ev line.Event, text string) error
}

// Handler processes webhook event batches strictly sequentially.
type Handler struct {
	cfg       *config.Config
	logger    zerolog.Logger
	provider  translation.Provider
	deliverer Deliverer
}

func New(cfg *config.Config, logger zerolog.Logger, provider translation.Provider, deliverer Deliverer) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		deliverer: deliverer,
	}
}

// HandleEvents walks a webhook batch. Events are independent: a failure or
// panic in one never aborts its siblings, and nothing here propagates back
// to the webhook response.
func (h *Handler) HandleEvents(ctx context.Context, events []line.Event) {
	for _, ev := range events {
		h.handleEvent(ctx, ev)
	}
}

func (h *Handler) handleEvent(ctx context.Context, ev line.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Interface("panic", r).Msg("event processing panicked")
			h.deliver(ctx, ev, FailureNotice)
		}
	}()

	if !ev.IsTextMessage() {
		return
	}

	text := strings.TrimSpace(ev.Message.Text)
	switch {
	case text == "":
		return
	case text == diagCommand:
		h.deliver(ctx, ev, h.Diagnose(ctx))
		return
	case strings.HasPrefix(text, noTranslatePrefix):
		return
	case utf8.RuneCountInString(text) < minTranslateRunes:
		return
	}

	dir := direction.Detect(text)
	h.logger.Debug().
		Stringer("direction", dir).
		Str("lang_hint", langdetect.DetectISO6391(text)).
		Int("runes", utf8.RuneCountInString(text)).
		Msg("translating message")

	chunks := segment.Split(text, h.cfg.ChunkMaxRunes)
	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := h.translateChunk(ctx, chunk, dir)
		if err != nil {
			// All or nothing: partial translations are discarded.
			h.logger.Warn().
				Err(err).
				Str("reason", string(translation.ReasonOf(err))).
				Int("chunk", i).
				Int("chunks", len(chunks)).
				Msg("chunk translation failed")
			h.deliver(ctx, ev, FailureNotice)
			return
		}
		translated = append(translated, resp.Text)
	}
	if len(translated) == 0 {
		return
	}

	h.deliver(ctx, ev, dir.Label()+"\n"+strings.Join(translated, "\n"))
}

func (h *Handler) translateChunk(ctx context.Context, chunk string, dir direction.Direction) (*translation.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, h.cfg.TranslateTimeout)
	defer cancel()
	return h.provider.Translate(callCtx, translation.Request{
		Text:           chunk,
		TargetLanguage: dir.Target(),
	})
}

func (h *Handler) deliver(ctx context.Context, ev line.Event, text string) {
	if err := h.deliverer.Deliver(ctx, ev, text); err != nil {
		h.logger.Error().Err(err).Msg("delivery failed")
	}
}

// Diagnose runs a synchronous probe against the completion API and
// reports a one-line status. The API key itself never appears in the
// output, only its length.
func (h *Handler) Diagnose(ctx context.Context) string {
	key := strings.TrimSpace(h.cfg.CompletionAPIKey)
	if key == "" {
		return "diag: key=missing provider=" + h.provider.Name()
	}

	callCtx, cancel := context.WithTimeout(ctx, h.cfg.TranslateTimeout)
	defer cancel()

	resp, err := h.provider.Translate(callCtx, translation.Request{
		Text:           "ping",
		TargetLanguage: "Japanese",
	})
	if err != nil {
		return fmt.Sprintf("diag: key=len(%d) provider=%s probe=%s %s",
			len(key), h.provider.Name(), translation.ReasonOf(err), truncateRunes(err.Error(), 80))
	}
	return fmt.Sprintf("diag: key=len(%d) provider=%s probe=ok latency=%dms",
		len(key), h.provider.Name(), resp.LatencyMs)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
