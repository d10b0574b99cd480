package service

import (
	"context"
	"errors"
	"time"

	repository "github.com/markmanipula/QuickCourt-Backend/internal/database/postgres"
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Retention
	PruneFinishedEvents(ctx context.Context, maxAge time.Duration) (int, error)
}

type ParticipationService interface {
	Join(ctx context.Context, eventID string, req *JoinRequest) (*JoinResult, error)
	Leave(ctx context.Context, eventID string, req *LeaveRequest) (*LeaveResult, error)
	TogglePaid(ctx context.Context, eventID, name string) (*TogglePaidResult, error)
}

// CreateEventRequest carries all fields needed to schedule an event. The
// organizer is seeded as the first active participant.
type CreateEventRequest struct {
	Title           string            `json:"title" binding:"required"`
	Organizer       string            `json:"organizer" binding:"required"`
	Location        string            `json:"location" binding:"required"`
	DateTime        entity.EventTime  `json:"date_time" binding:"required"`
	Cost            float64           `json:"cost"`
	MaxParticipants int               `json:"max_participants" binding:"required"`
	Details         string            `json:"details"`
	Visibility      entity.Visibility `json:"visibility"`
}

// UpdateEventRequest is a patch: nil means keep the existing value. Presence
// is explicit, so a provided zero (cost 0) is honored, not ignored.
type UpdateEventRequest struct {
	Title           *string            `json:"title,omitempty"`
	Organizer       *string            `json:"organizer,omitempty"`
	Location        *string            `json:"location,omitempty"`
	DateTime        *entity.EventTime  `json:"date_time,omitempty"`
	Cost            *float64           `json:"cost,omitempty"`
	MaxParticipants *int               `json:"max_participants,omitempty"`
	Details         *string            `json:"details,omitempty"`
	Visibility      *entity.Visibility `json:"visibility,omitempty"`
}

type JoinRequest struct {
	Participant string `json:"participant" binding:"required"`
	Passcode    string `json:"passcode"`
}

type LeaveRequest struct {
	Participant string `json:"participant" binding:"required"`
}

type JoinOutcome string

const (
	JoinOutcomeConfirmed  JoinOutcome = "confirmed"
	JoinOutcomeWaitlisted JoinOutcome = "waitlisted"
)

type JoinResult struct {
	Outcome JoinOutcome   `json:"outcome"`
	Event   *entity.Event `json:"event"`
}

type LeaveResult struct {
	FromWaitlist bool                `json:"from_waitlist"`
	Promoted     *entity.Participant `json:"promoted,omitempty"`
	Event        *entity.Event       `json:"event"`
}

type TogglePaidResult struct {
	Name  string        `json:"name"`
	Paid  bool          `json:"paid"`
	Event *entity.Event `json:"event"`
}

// Mutations are read-modify-write over the whole aggregate; the repository
// rejects stale writes with entity.ErrConcurrentUpdate and we retry the whole
// operation with fresh state, a bounded number of times.
const maxUpdateAttempts = 3

func updateWithRetry(ctx context.Context, repo repository.EventRepository, id string, apply func(*entity.Event) error) (*entity.Event, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		event, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := apply(event); err != nil {
			return nil, err
		}

		if err := repo.Update(ctx, event); err != nil {
			if errors.Is(err, entity.ErrConcurrentUpdate) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return event, nil
	}
	return nil, lastErr
}
