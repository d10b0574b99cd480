package service

import (
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

type AdmitDecision int

const (
	AdmitDirect AdmitDecision = iota
	AdmitWaitlist
)

// Admit decides where a new participant lands. Names are matched
// case-sensitively against both the active roster and the waitlist. Capacity
// is checked against the active roster only; the waitlist is unbounded.
func Admit(event *entity.Event, name string) (AdmitDecision, error) {
	if event.HasMember(name) {
		return 0, entity.ErrAlreadyJoined
	}
	if !event.IsFull() {
		return AdmitDirect, nil
	}
	return AdmitWaitlist, nil
}
