package service

import (
	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

// CheckJoinAccess decides whether a join attempt may proceed. Public events
// always pass; invite-only events require the stored passcode.
func CheckJoinAccess(event *entity.Event, passcode string) error {
	if event.Visibility != entity.VisibilityInviteOnly {
		return nil
	}
	if passcode == "" {
		return entity.ErrPasscodeRequired
	}
	if passcode != event.Passcode {
		return entity.ErrInvalidPasscode
	}
	return nil
}

// ReconcilePasscode applies the passcode lifecycle for a visibility change.
// Switching to invite-only always mints a fresh passcode, even if one existed
// from an earlier round trip; switching to public clears it. Runs before any
// other edit field so visibility and passcode stay consistent.
func ReconcilePasscode(event *entity.Event, newVisibility entity.Visibility) {
	if newVisibility == event.Visibility {
		return
	}
	switch newVisibility {
	case entity.VisibilityInviteOnly:
		event.Passcode = GeneratePasscode()
	case entity.VisibilityPublic:
		event.Passcode = ""
	}
	event.Visibility = newVisibility
}
