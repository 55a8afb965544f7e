package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestPushTargetPriority(t *testing.T) {
	t.Parallel()

	ev := Event{Source: Source{UserID: "U1", GroupID: "G1", RoomID: "R1"}}
	if got := ev.PushTarget(); got != "U1" {
		t.Fatalf("expected user target, got %q", got)
	}

	ev.Source.UserID = ""
	if got := ev.PushTarget(); got != "G1" {
		t.Fatalf("expected group target, got %q", got)
	}

	ev.Source.GroupID = ""
	if got := ev.PushTarget(); got != "R1" {
		t.Fatalf("expected room target, got %q", got)
	}

	ev.Source.RoomID = ""
	if got := ev.PushTarget(); got != "" {
		t.Fatalf("expected empty target, got %q", got)
	}
}

func TestDeliverPrefersReply(t *testing.T) {
	t.Parallel()

	var replies, pushes int
	var gotReply replyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/bot/message/reply":
			replies++
			_ = json.NewDecoder(r.Body).Decode(&gotReply)
		case "/v2/bot/message/push":
			pushes++
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "channel-token", zerolog.Nop())
	ev := Event{ReplyToken: "rt-1", Source: Source{UserID: "U1"}}
	if err := client.Deliver(context.Background(), ev, "translated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replies != 1 || pushes != 0 {
		t.Fatalf("expected one reply and no push, got %d/%d", replies, pushes)
	}
	if gotReply.ReplyToken != "rt-1" {
		t.Fatalf("unexpected reply token: %q", gotReply.ReplyToken)
	}
	if len(gotReply.Messages) != 1 || gotReply.Messages[0].Text != "translated" {
		t.Fatalf("unexpected messages: %+v", gotReply.Messages)
	}
}

func TestDeliverFallsBackToPushWhenReplyFails(t *testing.T) {
	t.Parallel()

	var gotPush pushRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/bot/message/reply":
			// An expired reply token surfaces as a 400.
			w.WriteHeader(http.StatusBadRequest)
		case "/v2/bot/message/push":
			_ = json.NewDecoder(r.Body).Decode(&gotPush)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "channel-token", zerolog.Nop())
	ev := Event{ReplyToken: "expired", Source: Source{GroupID: "G9"}}
	if err := client.Deliver(context.Background(), ev, "translated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPush.To != "G9" {
		t.Fatalf("expected push to group, got %q", gotPush.To)
	}
}

func TestDeliverDropsWithoutTokenOrTarget(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "channel-token", zerolog.Nop())
	if err := client.Deliver(context.Background(), Event{}, "translated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeliverSkipsWithoutChannelToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	ev := Event{ReplyToken: "rt-1", Source: Source{UserID: "U1"}}
	if err := client.Deliver(context.Background(), ev, "translated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
