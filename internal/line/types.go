// Package line wraps the messaging platform's webhook payload types and
// its reply/push delivery APIs.
package line

import "strings"

// Message type constants from the platform's webhook schema.
const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

// WebhookRequest is the inbound webhook payload.
type WebhookRequest struct {
	Destination string  `json:"destination,omitempty"`
	Events      []Event `json:"events"`
}

// Event is one inbound platform event. Ephemeral, never persisted.
type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken,omitempty"`
	Timestamp  int64   `json:"timestamp,omitempty"`
	Source     Source  `json:"source"`
	Message    Message `json:"message"`
}

// Source identifies the conversation an event came from.
type Source struct {
	Type    string `json:"type,omitempty"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Message is the message body of a message event.
type Message struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// IsTextMessage reports whether the event carries translatable text.
func (e Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message.Type == MessageTypeText
}

// PushTarget resolves the durable identifier for out-of-band delivery,
// preferring user, then group, then room.
func (e Event) PushTarget() string {
	if id := strings.TrimSpace(e.Source.UserID); id != "" {
		return id
	}
	if id := strings.TrimSpace(e.Source.GroupID); id != "" {
		return id
	}
	return strings.TrimSpace(e.Source.RoomID)
}
