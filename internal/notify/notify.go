package notify

import "context"

// Event is everything the delivery side needs to pick a template and
// address the mail. This core decides that a notification should go
// out and supplies the data; transport and rendering live elsewhere.
type Event struct {
	Kind EventKind `json:"kind"`

	ProcessID     string `json:"process_id"`
	ApplicationID string `json:"application_id"`
	IntervieweeID string `json:"interviewee_id"`
	SlotID        string `json:"slot_id,omitempty"`

	At int64 `json:"at"`
}

type EventKind string

const (
	KindInvitation       EventKind = "invitation"
	KindBookingConfirmed EventKind = "booking_confirmed"
	KindBookingCancelled EventKind = "booking_cancelled"
)

type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// Nop drops events; used in tests and local runs without a broker.
func Nop() Notifier {
	return nop{}
}

type nop struct{}

func (nop) Send(context.Context, Event) error { return nil }
