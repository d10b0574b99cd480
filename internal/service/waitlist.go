package service

import (
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

// PromoteNext moves the head of the waitlist into the active roster,
// keeping its paid flag. Returns nil when the waitlist is empty. Called
// after an active participant leaves, which frees exactly one slot.
func PromoteNext(event *entity.Event) *entity.Participant {
	promoted := PromoteUpTo(event, 1)
	if len(promoted) == 0 {
		return nil
	}
	return &promoted[0]
}

// PromoteUpTo moves up to spots entries from the head of the waitlist into
// the active roster, in FIFO order, preserving each paid flag. Entries left
// on the waitlist keep their relative order. A non-positive spots is a no-op.
func PromoteUpTo(event *entity.Event, spots int) []entity.Participant {
	if spots <= 0 || len(event.Waitlist) == 0 {
		return nil
	}
	if spots > len(event.Waitlist) {
		spots = len(event.Waitlist)
	}

	promoted := make([]entity.Participant, spots)
	copy(promoted, event.Waitlist[:spots])

	event.Waitlist = append(event.Waitlist[:0:0], event.Waitlist[spots:]...)
	event.Participants = append(event.Participants, promoted...)
	return promoted
}
