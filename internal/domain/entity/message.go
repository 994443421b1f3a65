package entity

import "time"

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeFile   MessageType = "file"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
)

type Message struct {
	ID            string      `json:"id" firestore:"id"`
	RoomID        string      `json:"room_id" firestore:"roomId"`
	SenderID      string      `json:"sender_id" firestore:"senderId"`
	Content       string      `json:"content" firestore:"content"`
	Type          MessageType `json:"type" firestore:"type"`
	AttachmentURL string      `json:"attachment_url,omitempty" firestore:"attachmentUrl,omitempty"`
	IsEdited      bool        `json:"is_edited" firestore:"isEdited"`
	// Soft-deleted messages keep their id and timestamps; content is cleared.
	IsDeleted bool      `json:"is_deleted" firestore:"isDeleted"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Before reports whether m sorts before other in room display order:
// CreatedAt ascending, ties broken by ID.
func (m *Message) Before(other *Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
