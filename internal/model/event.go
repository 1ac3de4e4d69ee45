package model

import "time"

// Event represents a scheduled community event in the catalog.  Events
// are the targets of registrations; the registration table references
// them by identity only.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – event title.
//  Description – optional longer description.
//  StartsAt    – scheduled date and time of the event.
//  Location    – optional venue or address.
//  CreatedBy   – user ID of the creator (nil when the account is gone).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
	ID          uint64     // events.id
	Title       string     // events.title
	Description *string    // events.description (nullable)
	StartsAt    time.Time  // events.starts_at
	Location    *string    // events.location (nullable)
	CreatedBy   *uint64    // events.created_by (nullable)
	CreatedAt   time.Time  // events.created_at
	UpdatedAt   time.Time  // events.updated_at
}
