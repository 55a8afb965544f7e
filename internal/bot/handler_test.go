package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/relay/internal/config"
	"horse.fit/relay/internal/line"
	"horse.fit/relay/internal/translation"
)

type stubProvider struct {
	calls     int
	failAt    int // 1-based call index that fails, 0 = never
	failErr   error
	panicAt   int // 1-based call index that panics, 0 = never
	translate func(req translation.Request) string
}

func (p *stubProvider) Translate(_ context.Context, req translation.Request) (*translation.Response, error) {
	p.calls++
	if p.panicAt != 0 && p.calls == p.panicAt {
		panic("provider exploded")
	}
	if p.failAt != 0 && p.calls == p.failAt {
		err := p.failErr
		if err == nil {
			err = &translation.Error{Reason: translation.ReasonNetwork, Detail: "boom"}
		}
		return nil, err
	}
	text := "translated:" + req.Text
	if p.translate != nil {
		text = p.translate(req)
	}
	return &translation.Response{Text: text, ProviderName: "stub", LatencyMs: 1}, nil
}

func (p *stubProvider) Name() string {
	return "stub"
}

type stubDeliverer struct {
	deliveries []string
}

func (d *stubDeliverer) Deliver(_ context.Context, _ line.Event, text string) error {
	d.deliveries = append(d.deliveries, text)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		CompletionAPIKey: "sk-test-secret",
		ChunkMaxRunes:    1400,
		TranslateTimeout: 5 * time.Second,
	}
}

func textEvent(text string) line.Event {
	return line.Event{
		Type:       line.EventTypeMessage,
		ReplyToken: "rt",
		Source:     line.Source{UserID: "U1"},
		Message:    line.Message{Type: line.MessageTypeText, Text: text},
	}
}

func TestHandleEventIgnoresFilteredMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ev   line.Event
	}{
		{name: "sticker", ev: line.Event{Type: line.EventTypeMessage, Message: line.Message{Type: "sticker"}}},
		{name: "follow event", ev: line.Event{Type: "follow"}},
		{name: "blank", ev: textEvent("   ")},
		{name: "no-translate marker", ev: textEvent("//anything")},
		{name: "single rune", ev: textEvent("a")},
		{name: "two runes", ev: textEvent("ok")},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			provider := &stubProvider{}
			delivered := &stubDeliverer{}
			h := New(testConfig(), zerolog.Nop(), provider, delivered)

			h.HandleEvents(context.Background(), []line.Event{tc.ev})

			if len(delivered.deliveries) != 0 {
				t.Fatalf("expected no delivery, got %v", delivered.deliveries)
			}
			if provider.calls != 0 {
				t.Fatalf("expected no translation calls, got %d", provider.calls)
			}
		})
	}
}

func TestHandleEventTranslatesAndLabels(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{translate: func(req translation.Request) string {
		if req.TargetLanguage != "Japanese" {
			t.Errorf("unexpected target language: %q", req.TargetLanguage)
		}
		return "ハローワールド"
	}}
	delivered := &stubDeliverer{}
	h := New(testConfig(), zerolog.Nop(), provider, delivered)

	h.HandleEvents(context.Background(), []line.Event{textEvent("Hello world")})

	if len(delivered.deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(delivered.deliveries))
	}
	if delivered.deliveries[0] != "[EN→JA]\nハローワールド" {
		t.Fatalf("unexpected reply: %q", delivered.deliveries[0])
	}
}

func TestHandleEventDiscardsPartialsOnChunkFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ChunkMaxRunes = 10

	provider := &stubProvider{failAt: 2}
	delivered := &stubDeliverer{}
	h := New(cfg, zerolog.Nop(), provider, delivered)

	text := strings.Repeat("x", 9) + "\n" + strings.Repeat("y", 9) + "\n" + strings.Repeat("z", 9)
	h.HandleEvents(context.Background(), []line.Event{textEvent(text)})

	if len(delivered.deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(delivered.deliveries))
	}
	if delivered.deliveries[0] != FailureNotice {
		t.Fatalf("expected failure notice, got %q", delivered.deliveries[0])
	}
	// The failing call was the second of three; the third is never made.
	if provider.calls != 2 {
		t.Fatalf("expected translation to stop after failure, got %d calls", provider.calls)
	}
}

func TestHandleEventPanicCollapsesToFailureNotice(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{panicAt: 1}
	delivered := &stubDeliverer{}
	h := New(testConfig(), zerolog.Nop(), provider, delivered)

	// The panicking event must not take down its sibling.
	h.HandleEvents(context.Background(), []line.Event{
		textEvent("first message"),
		textEvent("second message"),
	})

	if len(delivered.deliveries) != 2 {
		t.Fatalf("expected two deliveries, got %v", delivered.deliveries)
	}
	if delivered.deliveries[0] != FailureNotice {
		t.Fatalf("expected failure notice first, got %q", delivered.deliveries[0])
	}
	if !strings.HasPrefix(delivered.deliveries[1], "[EN→JA]\n") {
		t.Fatalf("expected sibling translation, got %q", delivered.deliveries[1])
	}
}

func TestDiagnoseReportsKeyLengthNotValue(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	provider := &stubProvider{}
	delivered := &stubDeliverer{}
	h := New(cfg, zerolog.Nop(), provider, delivered)

	h.HandleEvents(context.Background(), []line.Event{textEvent(diagCommand)})

	if len(delivered.deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(delivered.deliveries))
	}
	report := delivered.deliveries[0]
	if strings.Contains(report, cfg.CompletionAPIKey) {
		t.Fatalf("diagnostic leaked the API key: %q", report)
	}
	if !strings.Contains(report, "key=len(14)") {
		t.Fatalf("diagnostic missing key length: %q", report)
	}
	if !strings.Contains(report, "probe=ok") {
		t.Fatalf("diagnostic missing probe result: %q", report)
	}
}

func TestDiagnoseReportsMissingKeyAndUpstreamErrors(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CompletionAPIKey = ""
	h := New(cfg, zerolog.Nop(), &stubProvider{}, &stubDeliverer{})
	if got := h.Diagnose(context.Background()); !strings.Contains(got, "key=missing") {
		t.Fatalf("expected missing-key report, got %q", got)
	}

	cfg2 := testConfig()
	provider := &stubProvider{
		failAt:  1,
		failErr: &translation.Error{Reason: translation.ReasonHTTP, StatusCode: 401, Detail: "bad key"},
	}
	h2 := New(cfg2, zerolog.Nop(), provider, &stubDeliverer{})
	got := h2.Diagnose(context.Background())
	if !strings.Contains(got, "probe=http") {
		t.Fatalf("expected http probe failure, got %q", got)
	}
	if !strings.Contains(got, "401") {
		t.Fatalf("expected upstream status in report, got %q", got)
	}
}
