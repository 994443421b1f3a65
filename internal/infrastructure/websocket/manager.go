package websocket

import (
	"context"
	"sync"

	"planora/internal/domain/repository"
	"planora/pkg/errors"
	"planora/pkg/logger"
)

// Authorizer decides whether a user may subscribe to a topic.
type Authorizer interface {
	CanSubscribe(ctx context.Context, userID, topic string) error
}

// Manager tracks connected clients and their topic subscriptions. It only
// ever pushes invalidations; clients refetch through the HTTP API.
type Manager struct {
	clients    map[*Client]struct{}
	topics     map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	authorizer Authorizer
	mutex      sync.RWMutex
}

func NewManager(authorizer Authorizer) *Manager {
	return &Manager{
		clients:    make(map[*Client]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		authorizer: authorizer,
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client] = struct{}{}
				m.mutex.Unlock()
				logger.Info("WebSocket: client connected for user %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client]; ok {
					m.dropClientLocked(client)
				}
				m.mutex.Unlock()
				logger.Info("WebSocket: client disconnected for user %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Subscribe attaches the client to a topic after an authorization check. A
// user can always watch their own room list; room topics require membership.
func (m *Manager) Subscribe(ctx context.Context, client *Client, topic string) error {
	prefix, id := splitTopic(topic)
	if prefix == "" || id == "" {
		return errors.InvalidArgument("Unknown topic", nil)
	}
	if prefix == topicRoomListPrefix {
		if id != client.UserID {
			return errors.Forbidden("Cannot watch another user's room list", nil)
		}
	} else if err := m.authorizer.CanSubscribe(ctx, client.UserID, topic); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client.closed {
		return errors.Internal("Connection is closed", nil)
	}
	if m.topics[topic] == nil {
		m.topics[topic] = make(map[*Client]struct{})
	}
	m.topics[topic][client] = struct{}{}
	client.topics[topic] = struct{}{}
	return nil
}

func (m *Manager) Unsubscribe(client *Client, topic string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.removeSubscriptionLocked(client, topic)
}

// Publish fans a payload out to every subscriber of the topic. A client whose
// send buffer is full is dropped; it will reconnect and refresh everything.
func (m *Manager) Publish(topic string, payload []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for client := range m.topics[topic] {
		if client.closed {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			logger.Warn("WebSocket: dropping slow client for user %s", client.UserID)
			m.dropClientLocked(client)
		}
	}
}

// ActiveTopics snapshots every topic that has at least one subscriber.
func (m *Manager) ActiveTopics() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	topics := make([]string, 0, len(m.topics))
	for topic := range m.topics {
		topics = append(topics, topic)
	}
	return topics
}

func (m *Manager) removeSubscriptionLocked(client *Client, topic string) {
	if subscribers, ok := m.topics[topic]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(m.topics, topic)
		}
	}
	delete(client.topics, topic)
}

func (m *Manager) dropClientLocked(client *Client) {
	if client.closed {
		return
	}
	client.closed = true
	for topic := range client.topics {
		m.removeSubscriptionLocked(client, topic)
	}
	delete(m.clients, client)
	close(client.Send)
}

// membershipAuthorizer allows room-topic subscriptions for participants only.
type membershipAuthorizer struct {
	participantRepo repository.ParticipantRepository
}

func NewMembershipAuthorizer(participantRepo repository.ParticipantRepository) Authorizer {
	return &membershipAuthorizer{participantRepo: participantRepo}
}

func (a *membershipAuthorizer) CanSubscribe(ctx context.Context, userID, topic string) error {
	prefix, roomID := splitTopic(topic)
	if prefix != topicRoomPrefix {
		return errors.InvalidArgument("Unknown topic", nil)
	}
	if _, err := a.participantRepo.Get(ctx, roomID, userID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return errors.Forbidden("User is not a participant of this room", err)
		}
		return err
	}
	return nil
}
