package domain

import "time"

// Interaction event types published to the optional event sink.
const (
	InteractionSelect   = "select"
	InteractionActivate = "activate"
)

// InteractionEvent records a user action that changed state or left the app.
// Hover events are not recorded.
type InteractionEvent struct {
	Type       string    `json:"type"`
	Attribute  string    `json:"attribute"`
	Key        string    `json:"key,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSelectEvent stamps a selection change with the package clock.
func NewSelectEvent(attribute string) InteractionEvent {
	return InteractionEvent{Type: InteractionSelect, Attribute: attribute, OccurredAt: clock.Now()}
}

// NewActivateEvent stamps an activation with the package clock.
func NewActivateEvent(attribute, key, externalID string) InteractionEvent {
	return InteractionEvent{
		Type:       InteractionActivate,
		Attribute:  attribute,
		Key:        key,
		ExternalID: externalID,
		OccurredAt: clock.Now(),
	}
}
