package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the recommendation flow.
const (
	TypeSessionCreated       = "SESSION_CREATED"
	TypeSessionDeleted       = "SESSION_DELETED"
	TypeSituationSet         = "SITUATION_SET"
	TypeRecommendationServed = "RECOMMENDATION_SERVED"
	TypeFeedbackApplied      = "FEEDBACK_APPLIED"
	TypeItemSelected         = "ITEM_SELECTED"
	TypeSessionCompleted     = "SESSION_COMPLETED"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func NewSessionCreated(sessionID string) Event {
	return newBase(TypeSessionCreated, map[string]interface{}{"session_id": sessionID})
}

func NewSessionDeleted(sessionID string) Event {
	return newBase(TypeSessionDeleted, map[string]interface{}{"session_id": sessionID})
}

func NewSituationSet(sessionID string, keywords []string, conflict bool) Event {
	return newBase(TypeSituationSet, map[string]interface{}{
		"session_id": sessionID,
		"keywords":   keywords,
		"conflict":   conflict,
	})
}

func NewRecommendationServed(sessionID, category string, count int, recovered bool) Event {
	return newBase(TypeRecommendationServed, map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"count":      count,
		"recovered":  recovered,
	})
}

func NewFeedbackApplied(sessionID, category, intent string, values []string) Event {
	return newBase(TypeFeedbackApplied, map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"intent":     intent,
		"values":     values,
	})
}

func NewItemSelected(sessionID, category, productID string) Event {
	return newBase(TypeItemSelected, map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"product_id": productID,
	})
}

func NewSessionCompleted(sessionID string, selections int) Event {
	return newBase(TypeSessionCompleted, map[string]interface{}{
		"session_id": sessionID,
		"selections": selections,
	})
}
