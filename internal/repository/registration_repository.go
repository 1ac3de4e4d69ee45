package repository

import (
	"context"
	"database/sql"
	"time"
)

// RegistrationRepo owns the event_registrations table: every live
// registration, the uniqueness invariant on (event_id, user_id) and the
// derived count and roster views.  Events and users are referenced by
// identity only; their descriptive fields are joined in at query time.
//
// Uniqueness is enforced by the storage constraint, not by a
// check-then-insert in Go: concurrent Register calls for the same pair
// hit the same atomic INSERT and exactly one wins.  The repository holds
// no in-process locks.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a RegistrationRepo bound to the given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// UserRegistration is one row of a user's registration list, joined with
// the descriptive fields of the event it refers to.  Rows are ordered by
// the event's scheduled time, not by when the user registered.
type UserRegistration struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	Location     *string   `json:"location,omitempty"`
}

// EventAttendee is one row of an event's attendee roster, joined with
// the descriptive fields of the registered user.  Rows are ordered by
// registration time (first registered, first listed).
type EventAttendee struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
}

// Register creates a live registration for (eventID, userID) and returns
// its identifier.  When the pair is already registered, the insert is
// rejected by the unique constraint and ErrDuplicateRegistration is
// returned; any other database error propagates unchanged.  Referential
// validity of eventID and userID is the caller's responsibility.
func (r *RegistrationRepo) Register(ctx context.Context, eventID, userID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO event_registrations (event_id, user_id) VALUES (?,?)",
		eventID, userID)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrDuplicateRegistration
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Unregister removes the live registration for (eventID, userID) and
// reports whether a row was removed.  Unregistering a pair that is not
// registered is not an error; it returns false, which makes the
// operation idempotent.
func (r *RegistrationRepo) Unregister(ctx context.Context, eventID, userID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM event_registrations WHERE event_id=? AND user_id=?",
		eventID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsRegistered reports whether (eventID, userID) holds a live
// registration.  Pure query; reflects committed state at call time.
func (r *RegistrationRepo) IsRegistered(ctx context.Context, eventID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM event_registrations WHERE event_id=? AND user_id=? LIMIT 1",
		eventID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountByEvent returns the number of live registrations for an event.
// An event with no registrations, including an unknown event ID, counts
// as zero; existence checks belong to the event catalog.
func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventID uint64) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_registrations WHERE event_id=?",
		eventID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListByUser returns all live registrations of a user joined with event
// details, ordered by the event's scheduled time ascending.  The event
// ID breaks ties so the order is a deterministic total order.  An empty
// slice is returned when the user has no registrations.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID uint64) ([]UserRegistration, error) {
	const q = `SELECT er.id, er.event_id, er.created_at,
	                  e.title, e.description, e.starts_at, e.location
	           FROM event_registrations er
	           JOIN events e ON e.id = er.event_id
	           WHERE er.user_id = ?
	           ORDER BY e.starts_at ASC, e.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]UserRegistration, 0)
	for rows.Next() {
		var reg UserRegistration
		var desc, loc sql.NullString
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.RegisteredAt,
			&reg.Title, &desc, &reg.StartsAt, &loc); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			reg.Description = &d
		}
		if loc.Valid {
			l := loc.String
			reg.Location = &l
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByEvent returns the attendee roster of an event joined with user
// details, ordered by registration time ascending.  The registration ID
// breaks same-instant ties.  An empty slice is returned when nobody is
// registered.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]EventAttendee, error) {
	const q = `SELECT er.id, er.user_id, er.created_at,
	                  u.username, u.email, u.first_name, u.last_name, u.phone
	           FROM event_registrations er
	           JOIN users u ON u.id = er.user_id
	           WHERE er.event_id = ?
	           ORDER BY er.created_at ASC, er.id ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]EventAttendee, 0)
	for rows.Next() {
		var att EventAttendee
		var first, last, phone sql.NullString
		if err := rows.Scan(&att.ID, &att.UserID, &att.RegisteredAt,
			&att.Username, &att.Email, &first, &last, &phone); err != nil {
			return nil, err
		}
		if first.Valid {
			v := first.String
			att.FirstName = &v
		}
		if last.Valid {
			v := last.String
			att.LastName = &v
		}
		if phone.Valid {
			v := phone.String
			att.Phone = &v
		}
		list = append(list, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
