package entity

import "time"

type ParticipantRole string

const (
	RoleAdmin     ParticipantRole = "admin"
	RoleModerator ParticipantRole = "moderator"
	RoleMember    ParticipantRole = "member"
)

// Participant is the membership relation between a user and a room. The
// (RoomID, UserID) pair is unique; LastReadAt is the per-user read watermark
// and is only ever mutated by the owning user.
type Participant struct {
	RoomID     string          `json:"room_id" firestore:"roomId"`
	UserID     string          `json:"user_id" firestore:"userId"`
	Role       ParticipantRole `json:"role" firestore:"role"`
	JoinedAt   time.Time       `json:"joined_at" firestore:"joinedAt"`
	LastReadAt *time.Time      `json:"last_read_at,omitempty" firestore:"lastReadAt,omitempty"`
}
