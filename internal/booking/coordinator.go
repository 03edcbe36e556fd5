package booking

import (
	"context"

	"github.com/hireloop/interviewd/internal/metrics"
	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/internal/notify"
	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

type txnRunner interface {
	RunTxn(ctx context.Context, do func(ctx context.Context) error) error
}

// Coordinator owns every slot/interviewee mutation outside creation and
// deletion. A booking is two writes committed together: the invitee's
// slot reference and the slot's booked flag. The invitee version is the
// optimistic-lock token; the booked flag is re-verified at commit even
// when the version matches, because two invitees can race for one slot
// from two different version lineages. Either check failing aborts the
// whole unit with no partial effect. Losers get a distinct conflict
// error and decide themselves whether to retry with fresh data.
type Coordinator struct {
	slots    models.SlotsRepo
	invitees models.IntervieweesRepo
	txn      txnRunner
	notifier notify.Notifier
	clock    models.Clock
	log      logger.Logger
}

func NewCoordinator(
	slots models.SlotsRepo,
	invitees models.IntervieweesRepo,
	txn txnRunner,
	notifier notify.Notifier,
	clock models.Clock,
	log logger.Logger,
) *Coordinator {
	return &Coordinator{
		slots:    slots,
		invitees: invitees,
		txn:      txn,
		notifier: notifier,
		clock:    clock,
		log:      log.With("booking"),
	}
}

type CancelOptions struct {
	// Reinvite stamps a fresh invitation after the booking is released.
	Reinvite bool

	// DeleteSlot removes the slot entirely instead of freeing it.
	DeleteSlot bool
}

// Assign books a slot for an invitee on behalf of a reviewer.
func (c *Coordinator) Assign(ctx context.Context, slotID, intervieweeID string) error {
	metrics.BookingAttempts.WithLabelValues("assign").Inc()

	slot, err := c.slots.Find(ctx, slotID)
	if err != nil {
		return errors.WrapFail(err, "load slot")
	}
	if slot == nil {
		return errors.Wrap(models.ErrNotFound, "slot")
	}

	inv, err := c.invitees.Find(ctx, intervieweeID)
	if err != nil {
		return errors.WrapFail(err, "load interviewee")
	}
	if inv == nil {
		return errors.Wrap(models.ErrNotFound, "interviewee")
	}

	// the slot must belong to the invitee's process
	if slot.ProcessID != inv.ProcessID {
		return errors.Wrap(models.ErrNotFound, "slot")
	}

	return c.commit(ctx, "assign", *inv, *slot)
}

// Book is the applicant self-service path, the primary race target: two
// tabs of one applicant, or a reviewer and an applicant, may go for the
// same slot at once.
func (c *Coordinator) Book(ctx context.Context, processID, applicationID, slotID string) error {
	metrics.BookingAttempts.WithLabelValues("book").Inc()

	inv, err := c.invitees.FindPair(ctx, processID, applicationID)
	if err != nil {
		return errors.WrapFail(err, "load interviewee")
	}
	if inv == nil {
		return errors.Wrap(models.ErrAccessDenied, "application is not tracked in this process")
	}

	if !inv.Invited() {
		return errors.Wrap(models.ErrAccessDenied, "booking requires an invitation")
	}

	slot, err := c.slots.Find(ctx, slotID)
	if err != nil {
		return errors.WrapFail(err, "load slot")
	}
	if slot == nil || slot.ProcessID != processID {
		return errors.Wrap(models.ErrNotFound, "slot")
	}

	return c.commit(ctx, "book", *inv, *slot)
}

// Cancel releases the invitee's booking. The slot flag and the slot
// reference are cleared in the same transaction that set them.
func (c *Coordinator) Cancel(ctx context.Context, intervieweeID string, opts CancelOptions) error {
	metrics.BookingAttempts.WithLabelValues("cancel").Inc()

	inv, err := c.invitees.Find(ctx, intervieweeID)
	if err != nil {
		return errors.WrapFail(err, "load interviewee")
	}
	if inv == nil {
		return errors.Wrap(models.ErrNotFound, "interviewee")
	}

	if inv.SlotID == nil {
		return errors.Wrap(models.ErrInvalidInput, "interviewee has no active booking")
	}
	slotID := *inv.SlotID

	err = c.txn.RunTxn(ctx, func(ctx context.Context) error {
		ok, err := c.invitees.SetSlot(ctx, inv.ID, inv.Version, nil)
		if err != nil {
			return errors.WrapFail(err, "clear slot reference")
		}
		if !ok {
			metrics.BookingConflicts.WithLabelValues("cancel", metrics.ConflictStale).Inc()
			return models.ErrStaleInterviewee
		}

		if opts.DeleteSlot {
			ok, err := c.slots.Delete(ctx, slotID, false)
			if err != nil {
				return errors.WrapFail(err, "delete cancelled slot")
			}
			if !ok {
				// referenced slot must exist; anything else is corruption
				return errors.Failf("delete slot %s: already gone", slotID)
			}
			return nil
		}

		ok, err = c.slots.SetBooked(ctx, slotID, true, false)
		if err != nil {
			return errors.WrapFail(err, "release slot")
		}
		if !ok {
			// referenced slot must be booked; anything else is corruption
			return errors.Failf("release slot %s: booked flag already cleared", slotID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if opts.Reinvite {
		now := c.clock.Now().UnixMilli()
		_, err := c.invitees.MarkInvited(ctx, []string{inv.ID}, now)
		if err != nil {
			return errors.WrapFail(err, "reinvite after cancellation")
		}
		c.emit(ctx, notify.KindInvitation, *inv, "")
	}

	c.emit(ctx, notify.KindBookingCancelled, *inv, slotID)
	return nil
}

func (c *Coordinator) commit(ctx context.Context, op string, inv models.Interviewee, slot models.InterviewSlot) error {
	if inv.Booked() {
		return errors.Wrap(models.ErrInvalidInput, "interviewee already has a booking")
	}

	if slot.Booked {
		metrics.BookingConflicts.WithLabelValues(op, metrics.ConflictSlotTaken).Inc()
		return models.ErrSlotTaken
	}

	err := c.txn.RunTxn(ctx, func(ctx context.Context) error {
		ok, err := c.invitees.SetSlot(ctx, inv.ID, inv.Version, &slot.ID)
		if err != nil {
			return errors.WrapFail(err, "set slot reference")
		}
		if !ok {
			metrics.BookingConflicts.WithLabelValues(op, metrics.ConflictStale).Inc()
			return models.ErrStaleInterviewee
		}

		ok, err = c.slots.SetBooked(ctx, slot.ID, false, true)
		if err != nil {
			return errors.WrapFail(err, "flip booked flag")
		}
		if !ok {
			metrics.BookingConflicts.WithLabelValues(op, metrics.ConflictSlotTaken).Inc()
			return models.ErrSlotTaken
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.emit(ctx, notify.KindBookingConfirmed, inv, slot.ID)
	return nil
}

func (c *Coordinator) emit(ctx context.Context, kind notify.EventKind, inv models.Interviewee, slotID string) {
	err := c.notifier.Send(ctx, notify.Event{
		Kind:          kind,
		ProcessID:     inv.ProcessID,
		ApplicationID: inv.ApplicationID,
		IntervieweeID: inv.ID,
		SlotID:        slotID,
		At:            c.clock.Now().UnixMilli(),
	})
	if err != nil {
		c.log.Warn(errors.WrapFail(err, "send notification event"))
	}
}
