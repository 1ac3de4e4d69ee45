package model

import "time"

// Registration records one user's intent to attend one event.  The pair
// (EventID, UserID) is unique among live rows; the database enforces the
// constraint, so two registrations for the same pair can never coexist.
// Registrations are created and deleted, never updated.
//
// Fields:
//  ID        – primary key identifier, assigned on creation.
//  EventID   – event being attended.
//  UserID    – user attending.
//  CreatedAt – when the registration was made.
type Registration struct {
	ID        uint64    // event_registrations.id
	EventID   uint64    // event_registrations.event_id
	UserID    uint64    // event_registrations.user_id
	CreatedAt time.Time // event_registrations.created_at
}
