package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/markmanipula/QuickCourt-Backend/internal/database/postgres"
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
	"github.com/markmanipula/QuickCourt-Backend/internal/notify"

	"github.com/sirupsen/logrus"
)

type participationService struct {
	eventRepo repository.EventRepository
	cache     repository.EventCache
	notifier  notify.Publisher
}

// NewParticipationService creates a new instance of ParticipationService.
// cache and notifier may be nil.
func NewParticipationService(
	eventRepo repository.EventRepository,
	cache repository.EventCache,
	notifier notify.Publisher,
) ParticipationService {
	return &participationService{
		eventRepo: eventRepo,
		cache:     cache,
		notifier:  notifier,
	}
}

func (s *participationService) Join(ctx context.Context, eventID string, req *JoinRequest) (*JoinResult, error) {
	name := strings.TrimSpace(req.Participant)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", entity.ErrInvalidInput)
	}

	var outcome JoinOutcome
	event, err := updateWithRetry(ctx, s.eventRepo, eventID, func(event *entity.Event) error {
		if err := CheckJoinAccess(event, req.Passcode); err != nil {
			return err
		}

		decision, err := Admit(event, name)
		if err != nil {
			return err
		}

		switch decision {
		case AdmitDirect:
			event.Participants = append(event.Participants, entity.Participant{Name: name, Paid: false})
			outcome = JoinOutcomeConfirmed
		case AdmitWaitlist:
			event.Waitlist = append(event.Waitlist, entity.Participant{Name: name, Paid: false})
			outcome = JoinOutcomeWaitlisted
		}

		event.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)

	kind := notify.KindJoined
	message := "Joined event successfully"
	if outcome == JoinOutcomeWaitlisted {
		kind = notify.KindWaitlisted
		message = "Event is full, added to waitlist"
	}
	s.publish(ctx, &notify.Notice{
		EventID:     event.ID,
		EventTitle:  event.Title,
		Participant: name,
		Kind:        kind,
		Message:     message,
		CreatedAt:   time.Now(),
	})

	logrus.WithFields(logrus.Fields{
		"event_id":    eventID,
		"participant": name,
		"outcome":     outcome,
	}).Info("Participant joined")

	return &JoinResult{Outcome: outcome, Event: event}, nil
}

func (s *participationService) Leave(ctx context.Context, eventID string, req *LeaveRequest) (*LeaveResult, error) {
	name := strings.TrimSpace(req.Participant)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", entity.ErrInvalidInput)
	}

	var fromWaitlist bool
	var promoted *entity.Participant
	event, err := updateWithRetry(ctx, s.eventRepo, eventID, func(event *entity.Event) error {
		fromWaitlist = false
		promoted = nil

		if i := event.IndexOfParticipant(name); i >= 0 {
			event.Participants = append(event.Participants[:i], event.Participants[i+1:]...)
			// Leaving the active roster frees exactly one slot.
			promoted = PromoteNext(event)
		} else if i := event.IndexOfWaitlisted(name); i >= 0 {
			// Leaving the waitlist frees nothing, no promotion.
			event.Waitlist = append(event.Waitlist[:i], event.Waitlist[i+1:]...)
			fromWaitlist = true
		} else {
			return entity.ErrParticipantNotFound
		}

		event.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)

	if promoted != nil {
		s.publish(ctx, &notify.Notice{
			EventID:     event.ID,
			EventTitle:  event.Title,
			Participant: promoted.Name,
			Kind:        notify.KindPromoted,
			Message:     "A spot opened up, you are off the waitlist",
			CreatedAt:   time.Now(),
		})
	}

	logrus.WithFields(logrus.Fields{
		"event_id":      eventID,
		"participant":   name,
		"from_waitlist": fromWaitlist,
	}).Info("Participant left")

	return &LeaveResult{FromWaitlist: fromWaitlist, Promoted: promoted, Event: event}, nil
}

func (s *participationService) TogglePaid(ctx context.Context, eventID, name string) (*TogglePaidResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: participant name is required", entity.ErrInvalidInput)
	}

	var paid bool
	event, err := updateWithRetry(ctx, s.eventRepo, eventID, func(event *entity.Event) error {
		// Only active participants carry a meaningful paid flag.
		i := event.IndexOfParticipant(name)
		if i < 0 {
			return entity.ErrParticipantNotFound
		}
		event.Participants[i].Paid = !event.Participants[i].Paid
		paid = event.Participants[i].Paid

		event.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)

	return &TogglePaidResult{Name: name, Paid: paid, Event: event}, nil
}

func (s *participationService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.Warnf("Failed to invalidate cached event %s: %v", id, err)
	}
}

func (s *participationService) publish(ctx context.Context, notice *notify.Notice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notice); err != nil {
		logrus.Errorf("Failed to publish notice for event %s: %v", notice.EventID, err)
	}
}
