package entity

import (
	"time"
)

type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityInviteOnly Visibility = "invite-only"
)

// Valid reports whether v is one of the known visibility modes.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityInviteOnly
}

// Participant is identified by display name within a single event.
type Participant struct {
	Name string `json:"name"`
	Paid bool   `json:"paid"`
}

// Event is the aggregate root. Participants is the active roster in display
// order; Waitlist is a strict FIFO queue, index 0 is next to be promoted.
// Version backs optimistic concurrency control in the repository.
type Event struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Organizer       string        `json:"organizer"`
	Location        string        `json:"location"`
	DateTime        time.Time     `json:"date_time"`
	Cost            float64       `json:"cost"`
	MaxParticipants int           `json:"max_participants"`
	Details         string        `json:"details"`
	Visibility      Visibility    `json:"visibility"`
	Passcode        string        `json:"passcode,omitempty"`
	Participants    []Participant `json:"participants"`
	Waitlist        []Participant `json:"waitlist"`
	Version         int64         `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsFull returns true when the active roster has reached capacity.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxParticipants
}

// AvailableSpots returns the number of free slots in the active roster.
func (e *Event) AvailableSpots() int {
	return e.MaxParticipants - len(e.Participants)
}

// IndexOfParticipant returns the position of name in the active roster, -1 if absent.
func (e *Event) IndexOfParticipant(name string) int {
	for i, p := range e.Participants {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// IndexOfWaitlisted returns the position of name in the waitlist, -1 if absent.
func (e *Event) IndexOfWaitlisted(name string) int {
	for i, p := range e.Waitlist {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// HasMember reports whether name appears in the active roster or the waitlist.
func (e *Event) HasMember(name string) bool {
	return e.IndexOfParticipant(name) >= 0 || e.IndexOfWaitlisted(name) >= 0
}
