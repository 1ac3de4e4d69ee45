package repository

import (
	"context"
	"database/sql"

	"github.com/s1res/digital-navigator/internal/model"
)

// EventRepo is the event catalog: it owns event identity and descriptive
// data.  The registration ledger references events by ID only and
// trusts its callers to have verified existence here first.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event and returns its ID.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO events (title, description, starts_at, location, created_by) VALUES (?,?,?,?,?)",
		ev.Title, ev.Description, ev.StartsAt, ev.Location, ev.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single event.  ErrEventNotFound is returned when no
// event with the given ID exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var ev model.Event
	var desc, loc sql.NullString
	var createdBy sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, description, starts_at, location, created_by, created_at, updated_at FROM events WHERE id=? LIMIT 1",
		id).Scan(&ev.ID, &ev.Title, &desc, &ev.StartsAt, &loc, &createdBy, &ev.CreatedAt, &ev.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		ev.Description = &d
	}
	if loc.Valid {
		l := loc.String
		ev.Location = &l
	}
	if createdBy.Valid {
		cb := uint64(createdBy.Int64)
		ev.CreatedBy = &cb
	}
	return &ev, nil
}

// ListAll returns every event ordered by scheduled time ascending, the
// same order the original listing pages use.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, starts_at, location, created_by, created_at, updated_at FROM events ORDER BY starts_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		var desc, loc sql.NullString
		var createdBy sql.NullInt64
		if err := rows.Scan(&ev.ID, &ev.Title, &desc, &ev.StartsAt, &loc, &createdBy, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			ev.Description = &d
		}
		if loc.Valid {
			l := loc.String
			ev.Location = &l
		}
		if createdBy.Valid {
			cb := uint64(createdBy.Int64)
			ev.CreatedBy = &cb
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes an event and reports whether a row was deleted.
// Registrations referencing the event are removed by the cascading
// foreign key, never by application code.
func (r *EventRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
