package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventType identifies websocket event-feed payload variants.
type EventType string

const (
	TypeUtteranceReceived  EventType = "utterance_received"
	TypeAssistantReply     EventType = "assistant_reply"
	TypeWorkflowTransition EventType = "workflow_transition"
	TypeContextRemembered  EventType = "context_remembered"
	TypeErrorEvent         EventType = "error_event"
	TypeClientUtterance    EventType = "client_utterance"
	TypeClientSubscription EventType = "client_subscribe"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type EventType `json:"type"`
}

// Event is one outbound event-feed message. Payload shape depends on
// Type; consumers switch on it.
type Event struct {
	Type     EventType `json:"type"`
	TurnID   string    `json:"turn_id,omitempty"`
	Text     string    `json:"text,omitempty"`
	Intent   string    `json:"intent,omitempty"`
	Language string    `json:"language,omitempty"`
	State    string    `json:"state,omitempty"`
	Code     string    `json:"code,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	TS       time.Time `json:"ts"`
}

// ClientUtterance is an utterance submitted over the websocket instead
// of the REST endpoint.
type ClientUtterance struct {
	Type     EventType `json:"type"`
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
}

// ClientSubscribe acknowledges a feed subscription; no payload beyond
// the type today.
type ClientSubscribe struct {
	Type EventType `json:"type"`
}

// ParseClientMessage decodes and validates an inbound websocket frame.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientUtterance:
		var msg ClientUtterance
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Text == "" {
			return nil, errors.New("invalid client_utterance")
		}
		return msg, nil
	case TypeClientSubscription:
		var msg ClientSubscribe
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
