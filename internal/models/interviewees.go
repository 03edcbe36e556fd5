package models

import "context"

type IntervieweesRepo interface {
	// Insert adds an application to a process. The (process, application)
	// pair is unique; inserting a duplicate returns ErrInvalidInput.
	Insert(ctx context.Context, item Interviewee) (*Interviewee, error)

	Find(ctx context.Context, id string) (*Interviewee, error)

	FindPair(ctx context.Context, processID, applicationID string) (*Interviewee, error)

	// ListByProcess returns invitees ordered by most recently added first.
	ListByProcess(ctx context.Context, processID string) ([]Interviewee, error)

	// SetSlot points the invitee at a slot (or clears the reference when
	// slotID is nil), conditioned on the version read before the call.
	// It reports false on a version mismatch and writes nothing.
	SetSlot(ctx context.Context, id string, version int64, slotID *string) (bool, error)

	// SetAssessment writes rating and notes under the same version
	// condition as SetSlot.
	SetAssessment(ctx context.Context, id string, version int64, rating *AssessmentRating, notes *string) (bool, error)

	// MarkInvited stamps the invitation time on the given invitees.
	MarkInvited(ctx context.Context, ids []string, at int64) (int64, error)

	Delete(ctx context.Context, id string) (bool, error)
}

// Interviewee tracks one application inside one interview process.
// SlotID is a single optional reference: an invitee holds at most one
// booking at a time. Version is the optimistic-lock token bumped by
// every conditional write.
type Interviewee struct {
	ID            string `json:"id"             bson:"_id,omitempty"`
	ProcessID     string `json:"process_id"     bson:"process_id"`
	ApplicationID string `json:"application_id" bson:"application_id"`

	InvitedAt *int64  `json:"invited_at,omitempty" bson:"invited_at,omitempty"`
	SlotID    *string `json:"slot_id,omitempty"    bson:"slot_id,omitempty"`

	Rating *AssessmentRating `json:"rating,omitempty" bson:"rating,omitempty"`
	Notes  *string           `json:"notes,omitempty"  bson:"notes,omitempty"`

	Version int64 `json:"version"  bson:"version"`
	AddedAt int64 `json:"added_at" bson:"added_at"`
}

func (i Interviewee) Booked() bool {
	return i.SlotID != nil
}

func (i Interviewee) Invited() bool {
	return i.InvitedAt != nil
}

type AssessmentRating int

const (
	RatingStrongNo AssessmentRating = iota + 1
	RatingNo
	RatingNeutral
	RatingYes
	RatingStrongYes
)

func (r AssessmentRating) Valid() bool {
	return r >= RatingStrongNo && r <= RatingStrongYes
}

const (
	IntervieweeFieldProcessID     = "process_id"
	IntervieweeFieldApplicationID = "application_id"
	IntervieweeFieldInvitedAt     = "invited_at"
	IntervieweeFieldSlotID        = "slot_id"
	IntervieweeFieldRating        = "rating"
	IntervieweeFieldNotes         = "notes"
	IntervieweeFieldVersion       = "version"
	IntervieweeFieldAddedAt       = "added_at"
)
