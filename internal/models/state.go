package models

import (
	"strconv"
	"time"
)

// IntervieweeState is derived from stored timestamps on every read and
// never persisted, so it cannot drift from the slot and invitation data.
type IntervieweeState int

const (
	// StateUncontacted: tracked, no invitation sent yet.
	StateUncontacted IntervieweeState = iota

	// StateInvited: invitation sent, no slot booked.
	StateInvited

	// StateScheduled: holds a slot that has not ended yet.
	StateScheduled

	// StateCompleted: the booked slot's end time has passed.
	StateCompleted
)

func (s IntervieweeState) String() string {
	switch s {
	case StateUncontacted:
		return "UNCONTACTED"
	case StateInvited:
		return "INVITED"
	case StateScheduled:
		return "SCHEDULED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

func (s IntervieweeState) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// StateOf derives the invitee's lifecycle state. The completed check
// runs first, then scheduled, then invited; slot must be the slot the
// invitee references, or nil when it has none.
func StateOf(inv Interviewee, slot *InterviewSlot, now time.Time) IntervieweeState {
	if inv.SlotID != nil && slot != nil {
		if slot.EndsAt <= now.UnixMilli() {
			return StateCompleted
		}
		return StateScheduled
	}

	if inv.InvitedAt != nil {
		return StateInvited
	}

	return StateUncontacted
}
