package interviews

import (
	"context"
	"time"

	"github.com/hireloop/interviewd/internal/ics"
	"github.com/hireloop/interviewd/internal/metrics"
	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/internal/notify"
	"github.com/hireloop/interviewd/internal/schedule"
	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

// Service covers the reviewer-facing lifecycle around a process: slots,
// invitees, invitations, assessments. Booking mutations live in the
// booking coordinator; this service never touches a booked flag or a
// slot reference outside RemoveInterviewee's cleanup transaction.
type Service struct {
	processes models.ProcessesRepo
	slots     models.SlotsRepo
	invitees  models.IntervieweesRepo
	txn       txnRunner

	apps ApplicationDirectory
	jobs JobDirectory

	notifier notify.Notifier
	clock    models.Clock
	log      logger.Logger
}

func NewService(
	processes models.ProcessesRepo,
	slots models.SlotsRepo,
	invitees models.IntervieweesRepo,
	txn txnRunner,
	apps ApplicationDirectory,
	jobs JobDirectory,
	notifier notify.Notifier,
	clock models.Clock,
	log logger.Logger,
) *Service {
	return &Service{
		processes: processes,
		slots:     slots,
		invitees:  invitees,
		txn:       txn,
		apps:      apps,
		jobs:      jobs,
		notifier:  notifier,
		clock:     clock,
		log:       log.With("interviews"),
	}
}

func (s *Service) CreateProcess(ctx context.Context, jobID string) (*models.InterviewProcess, error) {
	job, err := s.jobs.Find(ctx, jobID)
	if err != nil {
		return nil, errors.WrapFail(err, "resolve job")
	}
	if job == nil {
		return nil, errors.Wrap(models.ErrNotFound, "job")
	}

	return s.processes.Create(ctx, jobID, s.clock.Now().UnixMilli())
}

func (s *Service) FindProcess(ctx context.Context, id string) (*models.InterviewProcess, error) {
	process, err := s.processes.Find(ctx, id)
	if err != nil {
		return nil, errors.WrapFail(err, "find process")
	}
	if process == nil {
		return nil, errors.Wrap(models.ErrNotFound, "process")
	}

	return process, nil
}

// FindProcessByJob resolves the scheduling context from the job side.
func (s *Service) FindProcessByJob(ctx context.Context, jobID string) (*models.InterviewProcess, error) {
	process, err := s.processes.FindByJob(ctx, jobID)
	if err != nil {
		return nil, errors.WrapFail(err, "find process by job")
	}
	if process == nil {
		return nil, errors.Wrap(models.ErrNotFound, "process")
	}

	return process, nil
}

// CreateSlots persists a validated batch. Validation is batch-internal
// by design; overlaps against already persisted slots show up in the
// day conflict report instead of blocking creation.
func (s *Service) CreateSlots(ctx context.Context, processID string, drafts []schedule.SlotDraft) ([]models.InterviewSlot, error) {
	process, err := s.FindProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	err = schedule.ValidateBatch(drafts)
	if err != nil {
		return nil, err
	}

	slots := make([]models.InterviewSlot, 0, len(drafts))
	for _, d := range drafts {
		slots = append(slots, models.InterviewSlot{
			ProcessID:   process.ID,
			StartsAt:    d.StartsAt,
			EndsAt:      d.EndsAt,
			Location:    d.Location,
			MeetingLink: d.MeetingLink,
		})
	}

	// one transaction, so a mid-batch failure leaves no prefix behind
	var created []models.InterviewSlot
	err = s.txn.RunTxn(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.slots.InsertBatch(ctx, slots)
		return errors.WrapFail(err, "persist slot batch")
	})
	if err != nil {
		return nil, err
	}

	metrics.SlotsCreated.Add(float64(len(created)))
	return created, nil
}

func (s *Service) ListSlots(ctx context.Context, processID string) ([]models.InterviewSlot, error) {
	_, err := s.FindProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	return s.slots.ListByProcess(ctx, processID)
}

func (s *Service) CountSlots(ctx context.Context, processID string) (int64, error) {
	return s.slots.CountByProcess(ctx, processID)
}

// IntervieweeView is an invitee with its derived state and, when
// booked, the slot it points at.
type IntervieweeView struct {
	models.Interviewee

	State models.IntervieweeState `json:"state"`
	Slot  *models.InterviewSlot   `json:"slot,omitempty"`
}

func (s *Service) ListInterviewees(ctx context.Context, processID string) ([]IntervieweeView, error) {
	_, err := s.FindProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	invitees, err := s.invitees.ListByProcess(ctx, processID)
	if err != nil {
		return nil, errors.WrapFail(err, "list interviewees")
	}

	slots, err := s.slots.ListByProcess(ctx, processID)
	if err != nil {
		return nil, errors.WrapFail(err, "list slots")
	}

	byID := make(map[string]models.InterviewSlot, len(slots))
	for _, slot := range slots {
		byID[slot.ID] = slot
	}

	now := s.clock.Now()

	views := make([]IntervieweeView, 0, len(invitees))
	for _, inv := range invitees {
		var slot *models.InterviewSlot
		if inv.SlotID != nil {
			if found, ok := byID[*inv.SlotID]; ok {
				slot = &found
			}
		}

		views = append(views, IntervieweeView{
			Interviewee: inv,
			State:       models.StateOf(inv, slot, now),
			Slot:        slot,
		})
	}

	return views, nil
}

// AddInterviewees tracks applications in a process. Adding an already
// tracked application is a no-op returning the existing record.
func (s *Service) AddInterviewees(ctx context.Context, processID string, applicationIDs []string) ([]models.Interviewee, error) {
	if len(applicationIDs) == 0 {
		return nil, errors.Wrap(models.ErrInvalidInput, "no applications given")
	}

	process, err := s.FindProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UnixMilli()

	added := make([]models.Interviewee, 0, len(applicationIDs))
	for _, appID := range applicationIDs {
		app, err := s.apps.Find(ctx, appID)
		if err != nil {
			return nil, errors.WrapFail(err, "resolve application")
		}
		if app == nil {
			return nil, errors.Wrapf(models.ErrNotFound, "application %s", appID)
		}
		if app.JobID != process.JobID {
			return nil, errors.Wrapf(models.ErrInvalidInput, "application %s belongs to another job", appID)
		}

		existing, err := s.invitees.FindPair(ctx, processID, appID)
		if err != nil {
			return nil, errors.WrapFail(err, "check existing interviewee")
		}
		if existing != nil {
			added = append(added, *existing)
			continue
		}

		inserted, err := s.invitees.Insert(ctx, models.Interviewee{
			ProcessID:     processID,
			ApplicationID: appID,
			AddedAt:       now,
		})

		if errors.Is(err, models.ErrInvalidInput) {
			// lost an insert race for the same pair; take the winner
			existing, err := s.invitees.FindPair(ctx, processID, appID)
			if err != nil || existing == nil {
				return nil, errors.WrapFail(err, "reload interviewee after duplicate insert")
			}
			added = append(added, *existing)
			continue
		}

		if err != nil {
			return nil, errors.WrapFail(err, "insert interviewee")
		}

		added = append(added, *inserted)
	}

	return added, nil
}

// MarkInvited stamps invitation time on the given invitees, or on every
// invitee of the process when ids is empty. With onlyUninvited set,
// invitees that already carry a timestamp keep it.
func (s *Service) MarkInvited(ctx context.Context, processID string, ids []string, onlyUninvited bool) (int64, error) {
	_, err := s.FindProcess(ctx, processID)
	if err != nil {
		return 0, err
	}

	invitees, err := s.invitees.ListByProcess(ctx, processID)
	if err != nil {
		return 0, errors.WrapFail(err, "list interviewees")
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	var targets []models.Interviewee
	for _, inv := range invitees {
		if len(ids) > 0 && !requested[inv.ID] {
			continue
		}
		if onlyUninvited && inv.Invited() {
			continue
		}
		targets = append(targets, inv)
	}

	if len(targets) == 0 {
		return 0, nil
	}

	targetIDs := make([]string, 0, len(targets))
	for _, inv := range targets {
		targetIDs = append(targetIDs, inv.ID)
	}

	now := s.clock.Now().UnixMilli()

	n, err := s.invitees.MarkInvited(ctx, targetIDs, now)
	if err != nil {
		return 0, errors.WrapFail(err, "mark invited")
	}

	for _, inv := range targets {
		s.emitInvitation(ctx, inv, now)
	}

	return n, nil
}

func (s *Service) UpdateAssessment(ctx context.Context, intervieweeID string, rating *models.AssessmentRating, notes *string) error {
	if rating == nil && notes == nil {
		return errors.Wrap(models.ErrInvalidInput, "empty assessment update")
	}
	if rating != nil && !rating.Valid() {
		return errors.Wrap(models.ErrInvalidInput, "rating out of scale")
	}

	inv, err := s.invitees.Find(ctx, intervieweeID)
	if err != nil {
		return errors.WrapFail(err, "load interviewee")
	}
	if inv == nil {
		return errors.Wrap(models.ErrNotFound, "interviewee")
	}

	ok, err := s.invitees.SetAssessment(ctx, inv.ID, inv.Version, rating, notes)
	if err != nil {
		return errors.WrapFail(err, "update assessment")
	}
	if !ok {
		return models.ErrStaleInterviewee
	}

	return nil
}

// DayConflicts reports the process's slots on the given day plus booked
// slots of other processes. Data only; nothing here blocks an action.
func (s *Service) DayConflicts(ctx context.Context, processID string, day time.Time) ([]schedule.DayConflict, error) {
	_, err := s.FindProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	from := dayStart.UnixMilli()
	to := dayStart.Add(24 * time.Hour).UnixMilli()

	slots, err := s.slots.ListWithin(ctx, from, to)
	if err != nil {
		return nil, errors.WrapFail(err, "list slots for day")
	}

	return schedule.BuildDayReport(processID, slots), nil
}

// DeleteSlot removes an unbooked slot. Booked slots go through the
// coordinator's cancellation first.
func (s *Service) DeleteSlot(ctx context.Context, processID, slotID string) error {
	slot, err := s.slots.Find(ctx, slotID)
	if err != nil {
		return errors.WrapFail(err, "load slot")
	}
	if slot == nil || slot.ProcessID != processID {
		return errors.Wrap(models.ErrNotFound, "slot")
	}

	ok, err := s.slots.Delete(ctx, slotID, true)
	if err != nil {
		return errors.WrapFail(err, "delete slot")
	}
	if !ok {
		return errors.Wrap(models.ErrInvalidInput, "slot is booked, cancel the booking first")
	}

	return nil
}

// RemoveInterviewee drops an application from the process, releasing
// its booking in the same transaction when it holds one.
func (s *Service) RemoveInterviewee(ctx context.Context, processID, intervieweeID string) error {
	inv, err := s.invitees.Find(ctx, intervieweeID)
	if err != nil {
		return errors.WrapFail(err, "load interviewee")
	}
	if inv == nil || inv.ProcessID != processID {
		return errors.Wrap(models.ErrNotFound, "interviewee")
	}

	return s.txn.RunTxn(ctx, func(ctx context.Context) error {
		// re-read inside the transaction: a booking may have committed
		// since the ownership check above
		current, err := s.invitees.Find(ctx, intervieweeID)
		if err != nil {
			return errors.WrapFail(err, "load interviewee")
		}
		if current == nil {
			return errors.Wrap(models.ErrNotFound, "interviewee")
		}

		if current.SlotID != nil {
			ok, err := s.slots.SetBooked(ctx, *current.SlotID, true, false)
			if err != nil {
				return errors.WrapFail(err, "release booked slot")
			}
			if !ok {
				return errors.Failf("release slot %s: booked flag already cleared", *current.SlotID)
			}
		}

		ok, err := s.invitees.Delete(ctx, current.ID)
		if err != nil {
			return errors.WrapFail(err, "delete interviewee")
		}
		if !ok {
			return errors.Wrap(models.ErrNotFound, "interviewee")
		}
		return nil
	})
}

// ExportCalendar renders the slot as a calendar invite titled after the
// owning job.
func (s *Service) ExportCalendar(ctx context.Context, slotID string) ([]byte, error) {
	slot, err := s.slots.Find(ctx, slotID)
	if err != nil {
		return nil, errors.WrapFail(err, "load slot")
	}
	if slot == nil {
		return nil, errors.Wrap(models.ErrNotFound, "slot")
	}

	process, err := s.FindProcess(ctx, slot.ProcessID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.Find(ctx, process.JobID)
	if err != nil {
		return nil, errors.WrapFail(err, "resolve job")
	}
	if job == nil {
		return nil, errors.Wrap(models.ErrNotFound, "job")
	}

	return ics.Render(*slot, job.Title), nil
}

func (s *Service) emitInvitation(ctx context.Context, inv models.Interviewee, at int64) {
	err := s.notifier.Send(ctx, notify.Event{
		Kind:          notify.KindInvitation,
		ProcessID:     inv.ProcessID,
		ApplicationID: inv.ApplicationID,
		IntervieweeID: inv.ID,
		At:            at,
	})
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "send invitation event"))
	}
}
