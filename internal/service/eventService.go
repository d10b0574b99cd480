package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/markmanipula/QuickCourt-Backend/internal/database/postgres"
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
	"github.com/markmanipula/QuickCourt-Backend/internal/notify"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type eventService struct {
	eventRepo repository.EventRepository
	cache     repository.EventCache
	notifier  notify.Publisher
}

// NewEventService creates a new instance of EventService. cache and notifier
// may be nil, in which case those concerns are skipped.
func NewEventService(
	eventRepo repository.EventRepository,
	cache repository.EventCache,
	notifier notify.Publisher,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		cache:     cache,
		notifier:  notifier,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Organizer = strings.TrimSpace(req.Organizer)
	req.Location = strings.TrimSpace(req.Location)

	if req.Title == "" || req.Organizer == "" || req.Location == "" {
		return nil, fmt.Errorf("%w: title, organizer and location are required", entity.ErrInvalidInput)
	}
	if req.DateTime.IsZero() {
		return nil, fmt.Errorf("%w: date_time is required", entity.ErrInvalidInput)
	}
	if req.MaxParticipants <= 0 {
		return nil, fmt.Errorf("%w: max_participants must be positive", entity.ErrInvalidInput)
	}
	if req.Cost < 0 {
		return nil, fmt.Errorf("%w: cost cannot be negative", entity.ErrInvalidInput)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = entity.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", entity.ErrInvalidInput, req.Visibility)
	}

	now := time.Now()
	event := &entity.Event{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Organizer:       req.Organizer,
		Location:        req.Location,
		DateTime:        req.DateTime.Time,
		Cost:            req.Cost,
		MaxParticipants: req.MaxParticipants,
		Details:         req.Details,
		Visibility:      visibility,
		Participants:    []entity.Participant{{Name: req.Organizer, Paid: false}},
		Waitlist:        []entity.Participant{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if visibility == entity.VisibilityInviteOnly {
		event.Passcode = GeneratePasscode()
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"organizer": event.Organizer,
	}).Info("Event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, event); err != nil {
			logrus.Warnf("Failed to cache event %s: %v", id, err)
		}
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*entity.Event, error) {
	var promoted []entity.Participant
	var passcodeRotated bool

	event, err := updateWithRetry(ctx, s.eventRepo, id, func(event *entity.Event) error {
		promoted = nil
		passcodeRotated = false
		previousMax := event.MaxParticipants

		// Visibility first, so the visibility/passcode pair is consistent
		// before any other field applies.
		if req.Visibility != nil {
			if !req.Visibility.Valid() {
				return fmt.Errorf("%w: unknown visibility %q", entity.ErrInvalidInput, *req.Visibility)
			}
			wasPublic := event.Visibility == entity.VisibilityPublic
			ReconcilePasscode(event, *req.Visibility)
			passcodeRotated = wasPublic && event.Visibility == entity.VisibilityInviteOnly
		}

		if err := applyScalarPatch(event, req); err != nil {
			return err
		}

		if event.MaxParticipants > previousMax {
			promoted = PromoteUpTo(event, event.AvailableSpots())
		}

		event.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	for i := range promoted {
		s.publish(ctx, &notify.Notice{
			EventID:     event.ID,
			EventTitle:  event.Title,
			Participant: promoted[i].Name,
			Kind:        notify.KindPromoted,
			Message:     "A spot opened up, you are off the waitlist",
			CreatedAt:   time.Now(),
		})
	}
	if passcodeRotated {
		s.publish(ctx, &notify.Notice{
			EventID:    event.ID,
			EventTitle: event.Title,
			Kind:       notify.KindPasscodeRotated,
			Message:    "Event is now invite-only with a new passcode",
			CreatedAt:  time.Now(),
		})
	}

	return event, nil
}

func applyScalarPatch(event *entity.Event, req *UpdateEventRequest) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", entity.ErrInvalidInput)
		}
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Organizer != nil {
		if strings.TrimSpace(*req.Organizer) == "" {
			return fmt.Errorf("%w: organizer cannot be empty", entity.ErrInvalidInput)
		}
		event.Organizer = strings.TrimSpace(*req.Organizer)
	}
	if req.Location != nil {
		if strings.TrimSpace(*req.Location) == "" {
			return fmt.Errorf("%w: location cannot be empty", entity.ErrInvalidInput)
		}
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.DateTime != nil {
		if req.DateTime.IsZero() {
			return fmt.Errorf("%w: date_time cannot be zero", entity.ErrInvalidInput)
		}
		event.DateTime = req.DateTime.Time
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return fmt.Errorf("%w: cost cannot be negative", entity.ErrInvalidInput)
		}
		event.Cost = *req.Cost
	}
	if req.MaxParticipants != nil {
		// Shrinking below the current roster is allowed and never evicts
		// anyone; the ceiling only gates future joins.
		if *req.MaxParticipants <= 0 {
			return fmt.Errorf("%w: max_participants must be positive", entity.ErrInvalidInput)
		}
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Details != nil {
		event.Details = *req.Details
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	logrus.WithField("event_id", id).Info("Event deleted")
	return nil
}

func (s *eventService) PruneFinishedEvents(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	ended, err := s.eventRepo.GetEndedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list finished events: %w", err)
	}

	pruned := 0
	for _, event := range ended {
		if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
			logrus.Errorf("Failed to prune event %s: %v", event.ID, err)
			continue
		}
		s.invalidate(ctx, event.ID)
		pruned++
	}
	return pruned, nil
}

func (s *eventService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.Warnf("Failed to invalidate cached event %s: %v", id, err)
	}
}

func (s *eventService) publish(ctx context.Context, notice *notify.Notice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notice); err != nil {
		logrus.Errorf("Failed to publish notice for event %s: %v", notice.EventID, err)
	}
}
