package websocket

import "strings"

// Topics are the unit of subscription and invalidation. Two shapes exist:
// "room-list:{userId}" for a user's room directory and "room:{roomId}" for a
// single room's timeline.
const (
	topicRoomPrefix     = "room:"
	topicRoomListPrefix = "room-list:"
)

func RoomTopic(roomID string) string {
	return topicRoomPrefix + roomID
}

func RoomListTopic(userID string) string {
	return topicRoomListPrefix + userID
}

// splitTopic returns the topic's prefix and id, or empty strings when the
// shape is unknown.
func splitTopic(topic string) (prefix, id string) {
	switch {
	case strings.HasPrefix(topic, topicRoomListPrefix):
		return topicRoomListPrefix, strings.TrimPrefix(topic, topicRoomListPrefix)
	case strings.HasPrefix(topic, topicRoomPrefix):
		return topicRoomPrefix, strings.TrimPrefix(topic, topicRoomPrefix)
	}
	return "", ""
}
