package common

// EventTopic carries every hero-facing domain event. Packs are keyed by user
// id so one hero's events stay ordered.
const EventTopic = "chore-quest-events"

type EventType string

const (
	XPGrantedEvent      EventType = "xp_granted"
	LevelUpEvent        EventType = "level_up"
	BossDefeatedEvent   EventType = "boss_defeated"
	FriendAcceptedEvent EventType = "friend_accepted"
)

type Event struct {
	Type   EventType      `json:"type"`
	UserID string         `json:"user_id"`
	Data   map[string]any `json:"data,omitempty"`
}
