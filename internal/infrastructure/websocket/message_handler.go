package websocket

import (
	"context"
	"encoding/json"
	"time"

	"planora/pkg/logger"
)

// Client-to-server and server-to-client message types. The server never
// pushes content over the socket; "invalidate" tells the client which topic
// went stale so it refetches over HTTP.
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeInvalidate  = "invalidate"
	MessageTypeError       = "error"
)

type WSMessage struct {
	Type      string `json:"type"`
	Topic     string `json:"topic,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// InvalidatePayload builds the wire form of a topic invalidation.
func InvalidatePayload(topic string) []byte {
	payload, _ := json.Marshal(WSMessage{
		Type:      MessageTypeInvalidate,
		Topic:     topic,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return payload
}

// HandleClientMessage processes one incoming client frame.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var message WSMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		logger.Warn("WebSocket: malformed frame from user %s: %v", client.UserID, err)
		m.sendError(client, "Invalid message format")
		return
	}

	switch message.Type {
	case MessageTypePing:
		m.send(client, WSMessage{Type: MessageTypePong})

	case MessageTypeSubscribe:
		if err := m.Subscribe(context.Background(), client, message.Topic); err != nil {
			logger.Warn("WebSocket: user %s denied subscription to %s: %v", client.UserID, message.Topic, err)
			m.sendError(client, "Subscription denied")
			return
		}
		// An invalidation for the new topic makes the client fetch a fresh
		// snapshot immediately; everything after is kept fresh by the feed.
		m.send(client, WSMessage{Type: MessageTypeInvalidate, Topic: message.Topic})

	case MessageTypeUnsubscribe:
		m.Unsubscribe(client, message.Topic)

	default:
		logger.Warn("WebSocket: unknown message type %q from user %s", message.Type, client.UserID)
		m.sendError(client, "Unknown message type")
	}
}

func (m *Manager) send(client *Client, message WSMessage) {
	message.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}

	// Send only under the mutex: Publish may have dropped the client and
	// closed its channel, and writing to it afterwards would panic.
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if client.closed {
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}

func (m *Manager) sendError(client *Client, text string) {
	m.send(client, WSMessage{Type: MessageTypeError, Message: text})
}
