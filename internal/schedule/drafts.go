package schedule

import (
	"slices"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
)

// SlotDraft is a proposed slot before it gets an id.
type SlotDraft struct {
	StartsAt    int64  `json:"starts_at"`
	EndsAt      int64  `json:"ends_at"`
	Location    string `json:"location"`
	MeetingLink string `json:"meeting_link,omitempty"`
}

// ValidateBatch checks a proposed batch of slots. Each draft must have a
// positive window and a location; no two drafts may overlap. The check
// is batch-internal only: it deliberately does not consult persisted
// slots, the day conflict report is the tool for that.
func ValidateBatch(drafts []SlotDraft) error {
	if len(drafts) == 0 {
		return errors.Wrap(models.ErrInvalidInput, "empty slot batch")
	}

	for i, d := range drafts {
		if d.EndsAt <= d.StartsAt {
			return errors.Wrapf(models.ErrInvalidInput, "slot %d ends before it starts", i)
		}
		if d.Location == "" {
			return errors.Wrapf(models.ErrInvalidInput, "slot %d has no location", i)
		}
	}

	var windows [][2]int64
	for i, d := range drafts {
		idx, ok := fitsSorted(windows, [2]int64{d.StartsAt, d.EndsAt})
		if !ok {
			return errors.Wrapf(models.ErrInvalidInput, "slot %d overlaps another slot in the batch", i)
		}
		windows = slices.Insert(windows, idx, [2]int64{d.StartsAt, d.EndsAt})
	}

	return nil
}
