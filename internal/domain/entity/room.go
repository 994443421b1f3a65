package entity

import "time"

type RoomKind string

const (
	RoomKindDirect  RoomKind = "direct"
	RoomKindGroup   RoomKind = "group"
	RoomKindProject RoomKind = "project"
	RoomKindGeneral RoomKind = "general"
)

type Room struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Kind        RoomKind  `json:"kind" firestore:"kind"`
	ProjectID   string    `json:"project_id,omitempty" firestore:"projectId,omitempty"`
	// PairKey is min(userA,userB):max(userA,userB) for direct rooms, empty
	// otherwise. It lets the store be queried by canonical pair and backs the
	// at-most-one-direct-room-per-pair invariant.
	PairKey   string    `json:"-" firestore:"pairKey,omitempty"`
	CreatedBy string    `json:"created_by" firestore:"createdBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PairKey canonicalizes an unordered user pair into a single lookup key.
func PairKey(userA, userB string) string {
	if userA < userB {
		return userA + ":" + userB
	}
	return userB + ":" + userA
}
