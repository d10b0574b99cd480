package service

import (
	"context"
	"testing"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
	"github.com/markmanipula/QuickCourt-Backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, repo *memoryEventRepo, mutate func(*entity.Event)) *entity.Event {
	t.Helper()

	now := time.Now()
	event := &entity.Event{
		ID:              "evt-1",
		Title:           "Saturday badminton",
		Organizer:       "Alice",
		Location:        "Court 3",
		DateTime:        now.Add(48 * time.Hour),
		Cost:            12.50,
		MaxParticipants: 4,
		Visibility:      entity.VisibilityPublic,
		Participants:    []entity.Participant{{Name: "Alice"}},
		Waitlist:        []entity.Participant{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if mutate != nil {
		mutate(event)
	}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("joins directly while there is room", func(t *testing.T) {
		repo := newMemoryEventRepo()
		notifier := &memoryNotifier{}
		svc := NewParticipationService(repo, nil, notifier)
		seedEvent(t, repo, nil)

		result, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})

		require.NoError(t, err)
		assert.Equal(t, JoinOutcomeConfirmed, result.Outcome)
		require.Len(t, result.Event.Participants, 2)
		assert.Equal(t, "Bob", result.Event.Participants[1].Name)
		assert.False(t, result.Event.Participants[1].Paid)
		assert.Equal(t, []notify.NoticeKind{notify.KindJoined}, notifier.kinds())
	})

	t.Run("full event waitlists in arrival order", func(t *testing.T) {
		repo := newMemoryEventRepo()
		notifier := &memoryNotifier{}
		svc := NewParticipationService(repo, nil, notifier)
		seedEvent(t, repo, func(e *entity.Event) { e.MaxParticipants = 1 })

		for i, name := range []string{"Bob", "Carol"} {
			result, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: name})
			require.NoError(t, err)
			assert.Equal(t, JoinOutcomeWaitlisted, result.Outcome)
			assert.Equal(t, name, result.Event.Waitlist[i].Name)
		}
		assert.Equal(t, []notify.NoticeKind{notify.KindWaitlisted, notify.KindWaitlisted}, notifier.kinds())
	})

	t.Run("duplicate join is rejected", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)

		_, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Alice"})
		assert.ErrorIs(t, err, entity.ErrAlreadyJoined)

		_, err = svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})
		require.NoError(t, err)
		_, err = svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})
		assert.ErrorIs(t, err, entity.ErrAlreadyJoined)
	})

	t.Run("blank participant name", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)

		_, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "   "})
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
	})

	t.Run("unknown event", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)

		_, err := svc.Join(ctx, "missing", &JoinRequest{Participant: "Bob"})
		assert.ErrorIs(t, err, entity.ErrEventNotFound)
	})

	t.Run("invite-only passcode gating", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, func(e *entity.Event) {
			e.Visibility = entity.VisibilityInviteOnly
			e.Passcode = "4821"
		})

		_, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})
		assert.ErrorIs(t, err, entity.ErrPasscodeRequired)

		_, err = svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob", Passcode: "1111"})
		assert.ErrorIs(t, err, entity.ErrInvalidPasscode)

		result, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob", Passcode: "4821"})
		require.NoError(t, err)
		assert.Equal(t, JoinOutcomeConfirmed, result.Outcome)
	})

	t.Run("retries through a concurrent update", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)
		repo.forcedConflicts = 2

		result, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})

		require.NoError(t, err)
		assert.Equal(t, JoinOutcomeConfirmed, result.Outcome)
		assert.Len(t, result.Event.Participants, 2)
	})

	t.Run("gives up after too many conflicts", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)
		repo.forcedConflicts = maxUpdateAttempts

		_, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Bob"})
		assert.ErrorIs(t, err, entity.ErrConcurrentUpdate)
	})
}

func TestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("leaving the roster promotes the waitlist head", func(t *testing.T) {
		repo := newMemoryEventRepo()
		notifier := &memoryNotifier{}
		svc := NewParticipationService(repo, nil, notifier)
		seedEvent(t, repo, func(e *entity.Event) {
			e.MaxParticipants = 1
			e.Waitlist = []entity.Participant{{Name: "Bob"}}
		})

		result, err := svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "Alice"})

		require.NoError(t, err)
		assert.False(t, result.FromWaitlist)
		require.NotNil(t, result.Promoted)
		assert.Equal(t, "Bob", result.Promoted.Name)
		require.Len(t, result.Event.Participants, 1)
		assert.Equal(t, "Bob", result.Event.Participants[0].Name)
		assert.Empty(t, result.Event.Waitlist)
		assert.Equal(t, []notify.NoticeKind{notify.KindPromoted}, notifier.kinds())
	})

	t.Run("leaving the waitlist promotes nobody", func(t *testing.T) {
		repo := newMemoryEventRepo()
		notifier := &memoryNotifier{}
		svc := NewParticipationService(repo, nil, notifier)
		seedEvent(t, repo, func(e *entity.Event) {
			e.MaxParticipants = 1
			e.Waitlist = []entity.Participant{{Name: "Bob"}, {Name: "Carol"}}
		})

		result, err := svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "Bob"})

		require.NoError(t, err)
		assert.True(t, result.FromWaitlist)
		assert.Nil(t, result.Promoted)
		require.Len(t, result.Event.Waitlist, 1)
		assert.Equal(t, "Carol", result.Event.Waitlist[0].Name)
		assert.Empty(t, notifier.kinds())
	})

	t.Run("last participant leaves an empty event behind", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, func(e *entity.Event) { e.MaxParticipants = 1 })

		result, err := svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "Alice"})

		require.NoError(t, err)
		assert.Nil(t, result.Promoted)
		assert.Empty(t, result.Event.Participants)
		assert.Empty(t, result.Event.Waitlist)

		// The event itself stays, joinable again.
		join, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "Dave"})
		require.NoError(t, err)
		assert.Equal(t, JoinOutcomeConfirmed, join.Outcome)
	})

	t.Run("unknown participant", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)

		_, err := svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "Nobody"})
		assert.ErrorIs(t, err, entity.ErrParticipantNotFound)
	})
}

// Full lifecycle from the scheduling scenario: capacity one, organizer holds
// the only spot, a second player queues, then both leave in turn.
func TestParticipationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryEventRepo()
	svc := NewParticipationService(repo, nil, nil)
	seedEvent(t, repo, func(e *entity.Event) {
		e.MaxParticipants = 1
		e.Organizer = "A"
		e.Participants = []entity.Participant{{Name: "A"}}
	})

	join, err := svc.Join(ctx, "evt-1", &JoinRequest{Participant: "B"})
	require.NoError(t, err)
	assert.Equal(t, JoinOutcomeWaitlisted, join.Outcome)

	leave, err := svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "A"})
	require.NoError(t, err)
	require.NotNil(t, leave.Promoted)
	assert.Equal(t, "B", leave.Promoted.Name)
	assert.Equal(t, "B", leave.Event.Participants[0].Name)

	leave, err = svc.Leave(ctx, "evt-1", &LeaveRequest{Participant: "B"})
	require.NoError(t, err)
	assert.Empty(t, leave.Event.Participants)
	assert.Empty(t, leave.Event.Waitlist)
}

func TestTogglePaid(t *testing.T) {
	ctx := context.Background()

	t.Run("flips back and forth", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)

		result, err := svc.TogglePaid(ctx, "evt-1", "Alice")
		require.NoError(t, err)
		assert.True(t, result.Paid)

		result, err = svc.TogglePaid(ctx, "evt-1", "Alice")
		require.NoError(t, err)
		assert.False(t, result.Paid)
	})

	t.Run("waitlisted participants have no paid flag to toggle", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, func(e *entity.Event) {
			e.MaxParticipants = 1
			e.Waitlist = []entity.Participant{{Name: "Bob"}}
		})

		_, err := svc.TogglePaid(ctx, "evt-1", "Bob")
		assert.ErrorIs(t, err, entity.ErrParticipantNotFound)
	})

	t.Run("unknown participant", func(t *testing.T) {
		repo := newMemoryEventRepo()
		svc := NewParticipationService(repo, nil, nil)
		seedEvent(t, repo, nil)

		_, err := svc.TogglePaid(ctx, "evt-1", "Nobody")
		assert.ErrorIs(t, err, entity.ErrParticipantNotFound)
	})
}
