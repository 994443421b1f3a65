package entity

type ChangeEntity string

const (
	ChangeEntityRoom        ChangeEntity = "room"
	ChangeEntityParticipant ChangeEntity = "participant"
	ChangeEntityMessage     ChangeEntity = "message"
)

type ChangeOperation string

const (
	ChangeOpCreate ChangeOperation = "create"
	ChangeOpUpdate ChangeOperation = "update"
	ChangeOpDelete ChangeOperation = "delete"
)

// ChangeEvent is what the repository change feed emits on any write. It names
// what changed, never carries the changed data: consumers refetch.
type ChangeEvent struct {
	Entity    ChangeEntity    `json:"entity"`
	Operation ChangeOperation `json:"operation"`
	RoomID    string          `json:"room_id"`
	// UserID is set for participant events only. A removed member is no
	// longer listed under the room, so the event itself has to say whose
	// room list went stale.
	UserID string `json:"user_id,omitempty"`
}
