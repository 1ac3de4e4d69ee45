// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationCreatedEvent is published when a user successfully
// registers for an event.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type RegistrationCreatedEvent struct {
	RegistrationID uint64 `json:"registration_id"`
	EventID        uint64 `json:"event_id"`
	UserID         uint64 `json:"user_id"`
	EventTitle     string `json:"event_title"`
	StartsAt       string `json:"starts_at"`
	Location       string `json:"location,omitempty"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	RegisteredAt   string `json:"registered_at"`
}
