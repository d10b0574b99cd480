package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

const (
	rosterActive   = "active"
	rosterWaitlist = "waitlist"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (id, title, organizer, location, date_time, cost,
			max_participants, details, visibility, passcode, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Organizer,
		event.Location,
		event.DateTime,
		event.Cost,
		event.MaxParticipants,
		event.Details,
		string(event.Visibility),
		nullString(event.Passcode),
		event.Version,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertMembers(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `
		SELECT id, title, organizer, location, date_time, cost,
			max_participants, details, visibility, passcode, version, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.loadMembers(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `
		SELECT id, title, organizer, location, date_time, cost,
			max_participants, details, visibility, passcode, version, created_at, updated_at
		FROM events
		ORDER BY date_time
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	byID := make(map[string]*entity.Event)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
		byID[event.ID] = event
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberQuery := `
		SELECT event_id, name, paid, roster
		FROM event_members
		ORDER BY event_id, roster, position
	`
	memberRows, err := r.db.QueryContext(ctx, memberQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list event members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var eventID, name, roster string
		var paid bool
		if err := memberRows.Scan(&eventID, &name, &paid, &roster); err != nil {
			return nil, fmt.Errorf("failed to scan event member: %w", err)
		}
		event, ok := byID[eventID]
		if !ok {
			continue
		}
		appendMember(event, name, paid, roster)
	}
	return events, memberRows.Err()
}

// Update writes the whole aggregate back. The version predicate rejects any
// write based on stale state; members are rewritten atomically with the row.
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET title = $1, organizer = $2, location = $3, date_time = $4, cost = $5,
			max_participants = $6, details = $7, visibility = $8, passcode = $9,
			version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12
	`
	result, err := tx.ExecContext(ctx, query,
		event.Title,
		event.Organizer,
		event.Location,
		event.DateTime,
		event.Cost,
		event.MaxParticipants,
		event.Details,
		string(event.Visibility),
		nullString(event.Passcode),
		event.UpdatedAt,
		event.ID,
		event.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, event.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		if !exists {
			return entity.ErrEventNotFound
		}
		return entity.ErrConcurrentUpdate
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_members WHERE event_id = $1`, event.ID); err != nil {
		return fmt.Errorf("failed to clear event members: %w", err)
	}
	if err := insertMembers(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	event.Version++
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) GetEndedBefore(ctx context.Context, cutoff time.Time) ([]*entity.Event, error) {
	query := `
		SELECT id, title, organizer, location, date_time, cost,
			max_participants, details, visibility, passcode, version, created_at, updated_at
		FROM events
		WHERE date_time < $1
		ORDER BY date_time
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *eventRepository) loadMembers(ctx context.Context, event *entity.Event) error {
	query := `
		SELECT name, paid, roster
		FROM event_members
		WHERE event_id = $1
		ORDER BY roster, position
	`

	rows, err := r.db.QueryContext(ctx, query, event.ID)
	if err != nil {
		return fmt.Errorf("failed to load event members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, roster string
		var paid bool
		if err := rows.Scan(&name, &paid, &roster); err != nil {
			return fmt.Errorf("failed to scan event member: %w", err)
		}
		appendMember(event, name, paid, roster)
	}
	return rows.Err()
}

func insertMembers(ctx context.Context, tx *sql.Tx, event *entity.Event) error {
	query := `
		INSERT INTO event_members (event_id, name, paid, roster, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, p := range event.Participants {
		if _, err := tx.ExecContext(ctx, query, event.ID, p.Name, p.Paid, rosterActive, i); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	for i, p := range event.Waitlist {
		if _, err := tx.ExecContext(ctx, query, event.ID, p.Name, p.Paid, rosterWaitlist, i); err != nil {
			return fmt.Errorf("failed to insert waitlist entry: %w", err)
		}
	}
	return nil
}

func appendMember(event *entity.Event, name string, paid bool, roster string) {
	p := entity.Participant{Name: name, Paid: paid}
	if roster == rosterWaitlist {
		event.Waitlist = append(event.Waitlist, p)
	} else {
		event.Participants = append(event.Participants, p)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*entity.Event, error) {
	var event entity.Event
	var visibility string
	var passcode sql.NullString
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Organizer,
		&event.Location,
		&event.DateTime,
		&event.Cost,
		&event.MaxParticipants,
		&event.Details,
		&visibility,
		&passcode,
		&event.Version,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Visibility = entity.Visibility(visibility)
	event.Passcode = passcode.String
	event.Participants = []entity.Participant{}
	event.Waitlist = []entity.Participant{}
	return &event, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
