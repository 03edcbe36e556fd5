package models

import "context"

type SlotsRepo interface {
	// InsertBatch persists the batch. Callers wrap it in a transaction
	// when partial writes must not survive a failure.
	InsertBatch(ctx context.Context, slots []InterviewSlot) ([]InterviewSlot, error)

	Find(ctx context.Context, id string) (*InterviewSlot, error)

	// ListByProcess returns the process slots ordered by start time.
	ListByProcess(ctx context.Context, processID string) ([]InterviewSlot, error)

	CountByProcess(ctx context.Context, processID string) (int64, error)

	// ListWithin returns slots of all processes intersecting [from, to).
	ListWithin(ctx context.Context, from, to int64) ([]InterviewSlot, error)

	// SetBooked flips the booked flag from "from" to "to". It reports
	// false when the slot's current flag no longer equals "from", which
	// means another booking committed first.
	SetBooked(ctx context.Context, id string, from, to bool) (bool, error)

	// Delete removes a slot. With onlyUnbooked set it refuses to remove
	// a booked slot and reports false.
	Delete(ctx context.Context, id string, onlyUnbooked bool) (bool, error)
}

// InterviewSlot is a bookable time window owned by exactly one process.
// Times are unix milliseconds, start strictly before end; the window is
// half-open: [StartsAt, EndsAt).
type InterviewSlot struct {
	ID        string `json:"id"         bson:"_id,omitempty"`
	ProcessID string `json:"process_id" bson:"process_id"`

	StartsAt int64 `json:"starts_at" bson:"starts_at"`
	EndsAt   int64 `json:"ends_at"   bson:"ends_at"`

	Location    string `json:"location"               bson:"location"`
	MeetingLink string `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`

	Booked bool `json:"booked" bson:"booked"`
}

func (s InterviewSlot) Interval() [2]int64 {
	return [2]int64{s.StartsAt, s.EndsAt}
}

const (
	SlotFieldProcessID   = "process_id"
	SlotFieldStartsAt    = "starts_at"
	SlotFieldEndsAt      = "ends_at"
	SlotFieldLocation    = "location"
	SlotFieldMeetingLink = "meeting_link"
	SlotFieldBooked      = "booked"
)
