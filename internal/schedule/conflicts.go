package schedule

import (
	"sort"

	"github.com/hireloop/interviewd/internal/models"
)

// DayConflict is one row of the reviewer's conflict view: a slot tagged
// with its owning process. Foreign rows are booked slots of other
// processes, so the reviewer can tell "busy inside this process" apart
// from "the applicant's time is committed elsewhere". Overlapping marks
// rows that intersect one of the process's own windows; batch validation
// never compares against persisted slots, so this is where cross-batch
// overlaps become visible. The report is data only; the booking
// coordinator is the sole enforcement point.
type DayConflict struct {
	Slot        models.InterviewSlot `json:"slot"`
	ProcessID   string               `json:"process_id"`
	Foreign     bool                 `json:"foreign"`
	Overlapping bool                 `json:"overlapping"`
}

// BuildDayReport merges a process's own slots with booked slots from
// other processes, ordered by start time.
func BuildDayReport(processID string, slots []models.InterviewSlot) []DayConflict {
	var own []models.InterviewSlot
	for _, s := range slots {
		if s.ProcessID == processID {
			own = append(own, s)
		}
	}

	overlapsOwn := func(s models.InterviewSlot) bool {
		for _, o := range own {
			if o.ID == s.ID {
				continue
			}
			if Overlaps(o.Interval(), s.Interval()) {
				return true
			}
		}
		return false
	}

	report := make([]DayConflict, 0, len(slots))
	for _, s := range slots {
		if s.ProcessID != processID && !s.Booked {
			continue
		}

		report = append(report, DayConflict{
			Slot:        s,
			ProcessID:   s.ProcessID,
			Foreign:     s.ProcessID != processID,
			Overlapping: overlapsOwn(s),
		})
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].Slot.StartsAt < report[j].Slot.StartsAt
	})

	return report
}
