package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/internal/notify"
	"github.com/hireloop/interviewd/internal/repo"
	"github.com/hireloop/interviewd/pkg/logger"
)

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Send(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) kinds() []notify.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]notify.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type fixture struct {
	db       repo.Client
	coord    *Coordinator
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	db := repo.NewMemory()
	notifier := &recordingNotifier{}

	return &fixture{
		db:       db,
		notifier: notifier,
		now:      now,
		coord: NewCoordinator(
			db.Slots(), db.Interviewees(), db,
			notifier, fixedClock(now), logger.NewStub(),
		),
	}
}

func (f *fixture) addSlot(t *testing.T, processID string, startOffset time.Duration) models.InterviewSlot {
	t.Helper()

	start := f.now.Add(startOffset)
	created, err := f.db.Slots().InsertBatch(context.Background(), []models.InterviewSlot{{
		ProcessID: processID,
		StartsAt:  start.UnixMilli(),
		EndsAt:    start.Add(30 * time.Minute).UnixMilli(),
		Location:  "room 1",
	}})
	require.NoError(t, err)
	return created[0]
}

func (f *fixture) addInterviewee(t *testing.T, processID, appID string, invited bool) models.Interviewee {
	t.Helper()

	item := models.Interviewee{ProcessID: processID, ApplicationID: appID, AddedAt: f.now.UnixMilli()}
	if invited {
		at := f.now.UnixMilli()
		item.InvitedAt = &at
	}

	inserted, err := f.db.Interviewees().Insert(context.Background(), item)
	require.NoError(t, err)
	return *inserted
}

// requireConsistent checks the round-trip invariant: a slot is booked
// iff exactly one invitee references it.
func (f *fixture) requireConsistent(t *testing.T, processID string) {
	t.Helper()
	ctx := context.Background()

	slots, err := f.db.Slots().ListByProcess(ctx, processID)
	require.NoError(t, err)

	invitees, err := f.db.Interviewees().ListByProcess(ctx, processID)
	require.NoError(t, err)

	refs := map[string]int{}
	for _, inv := range invitees {
		if inv.SlotID != nil {
			refs[*inv.SlotID]++
		}
	}

	for _, slot := range slots {
		if slot.Booked {
			require.Equal(t, 1, refs[slot.ID], "booked slot %s must have exactly one reference", slot.ID)
		} else {
			require.Zero(t, refs[slot.ID], "free slot %s must have no references", slot.ID)
		}
	}
}

func TestCoordinator_Assign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.NoError(t, f.coord.Assign(ctx, slot.ID, inv.ID))

	got, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SlotID)
	require.Equal(t, slot.ID, *got.SlotID)
	require.Equal(t, inv.Version+1, got.Version)

	f.requireConsistent(t, "p1")
	require.Equal(t, []notify.EventKind{notify.KindBookingConfirmed}, f.notifier.kinds())
}

func TestCoordinator_Assign_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.ErrorIs(t, f.coord.Assign(ctx, "missing", inv.ID), models.ErrNotFound)
	require.ErrorIs(t, f.coord.Assign(ctx, slot.ID, "missing"), models.ErrNotFound)
}

func TestCoordinator_Assign_CrossProcess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p2", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.ErrorIs(t, f.coord.Assign(ctx, slot.ID, inv.ID), models.ErrNotFound)

	gotSlot, err := f.db.Slots().Find(ctx, slot.ID)
	require.NoError(t, err)
	require.False(t, gotSlot.Booked)

	gotInv, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.Nil(t, gotInv.SlotID)
}

func TestCoordinator_Book_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	uncontacted := f.addInterviewee(t, "p1", "app-1", false)

	// not an invitee of the process at all
	err := f.coord.Book(ctx, "p1", "unknown-app", slot.ID)
	require.ErrorIs(t, err, models.ErrAccessDenied)

	// tracked but never invited
	err = f.coord.Book(ctx, "p1", uncontacted.ApplicationID, slot.ID)
	require.ErrorIs(t, err, models.ErrAccessDenied)

	// slot of another process is invisible
	foreign := f.addSlot(t, "p2", time.Hour)
	invited := f.addInterviewee(t, "p1", "app-2", true)
	err = f.coord.Book(ctx, "p1", invited.ApplicationID, foreign.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	f.requireConsistent(t, "p1")
}

func TestCoordinator_Book_SecondBookerLoses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	x := f.addInterviewee(t, "p1", "app-x", true)
	y := f.addInterviewee(t, "p1", "app-y", true)

	require.NoError(t, f.coord.Book(ctx, "p1", x.ApplicationID, slot.ID))
	require.ErrorIs(t, f.coord.Book(ctx, "p1", y.ApplicationID, slot.ID), models.ErrSlotTaken)

	gotY, err := f.db.Interviewees().Find(ctx, y.ID)
	require.NoError(t, err)
	require.Nil(t, gotY.SlotID, "loser must keep no slot reference")

	f.requireConsistent(t, "p1")
}

func TestCoordinator_Book_DoubleBookingRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addSlot(t, "p1", time.Hour)
	b := f.addSlot(t, "p1", 2*time.Hour)
	x := f.addInterviewee(t, "p1", "app-x", true)

	require.NoError(t, f.coord.Book(ctx, "p1", x.ApplicationID, a.ID))
	require.ErrorIs(t, f.coord.Book(ctx, "p1", x.ApplicationID, b.ID), models.ErrInvalidInput)

	f.requireConsistent(t, "p1")
}

func TestCoordinator_Book_ConcurrentRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	x := f.addInterviewee(t, "p1", "app-x", true)
	y := f.addInterviewee(t, "p1", "app-y", true)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, app := range []string{x.ApplicationID, y.ApplicationID} {
		wg.Add(1)
		go func(app string) {
			defer wg.Done()
			errs <- f.coord.Book(ctx, "p1", app, slot.ID)
		}(app)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		require.ErrorIs(t, err, models.ErrSlotTaken)
		lost++
	}

	require.Equal(t, 1, won, "exactly one booking must win")
	require.Equal(t, 1, lost, "the other must get a conflict")

	f.requireConsistent(t, "p1")
}

type staleReads struct {
	models.IntervieweesRepo
}

// Find reports a version one behind the stored one, as if another
// commit landed between the caller's read and its commit.
func (s staleReads) Find(ctx context.Context, id string) (*models.Interviewee, error) {
	inv, err := s.IntervieweesRepo.Find(ctx, id)
	if inv != nil {
		inv.Version--
	}
	return inv, err
}

func TestCoordinator_Assign_StaleVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	coord := NewCoordinator(
		f.db.Slots(), staleReads{f.db.Interviewees()}, f.db,
		f.notifier, fixedClock(f.now), logger.NewStub(),
	)

	require.ErrorIs(t, coord.Assign(ctx, slot.ID, inv.ID), models.ErrStaleInterviewee)

	// aborted unit of work leaves no partial state
	gotSlot, err := f.db.Slots().Find(ctx, slot.ID)
	require.NoError(t, err)
	require.False(t, gotSlot.Booked)

	gotInv, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.Nil(t, gotInv.SlotID)
	require.Empty(t, f.notifier.kinds())
}

func TestCoordinator_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.NoError(t, f.coord.Assign(ctx, slot.ID, inv.ID))
	require.NoError(t, f.coord.Cancel(ctx, inv.ID, CancelOptions{}))

	gotSlot, err := f.db.Slots().Find(ctx, slot.ID)
	require.NoError(t, err)
	require.False(t, gotSlot.Booked)

	gotInv, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.Nil(t, gotInv.SlotID)
	require.Equal(t, models.StateInvited, models.StateOf(*gotInv, nil, f.now))

	f.requireConsistent(t, "p1")
}

func TestCoordinator_Cancel_WithoutBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.ErrorIs(t, f.coord.Cancel(ctx, inv.ID, CancelOptions{}), models.ErrInvalidInput)
	require.ErrorIs(t, f.coord.Cancel(ctx, "missing", CancelOptions{}), models.ErrNotFound)
}

func TestCoordinator_Cancel_DeleteSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.NoError(t, f.coord.Assign(ctx, slot.ID, inv.ID))
	require.NoError(t, f.coord.Cancel(ctx, inv.ID, CancelOptions{DeleteSlot: true}))

	gotSlot, err := f.db.Slots().Find(ctx, slot.ID)
	require.NoError(t, err)
	require.Nil(t, gotSlot)
}

func TestCoordinator_Cancel_DeleteSlot_AlreadyGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.NoError(t, f.coord.Assign(ctx, slot.ID, inv.ID))

	// slot vanished out of band; cancellation must not pretend it
	// deleted anything
	_, err := f.db.Slots().Delete(ctx, slot.ID, false)
	require.NoError(t, err)

	require.Error(t, f.coord.Cancel(ctx, inv.ID, CancelOptions{DeleteSlot: true}))

	// aborted unit of work keeps the slot reference
	gotInv, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, gotInv.SlotID)
}

func TestCoordinator_Cancel_Reinvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, "p1", time.Hour)
	inv := f.addInterviewee(t, "p1", "app-1", true)

	require.NoError(t, f.coord.Assign(ctx, slot.ID, inv.ID))
	require.NoError(t, f.coord.Cancel(ctx, inv.ID, CancelOptions{Reinvite: true}))

	gotInv, err := f.db.Interviewees().Find(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, gotInv.InvitedAt)
	require.Equal(t, f.now.UnixMilli(), *gotInv.InvitedAt)

	require.Contains(t, f.notifier.kinds(), notify.KindInvitation)
}

// The reference scenario: X books A, Y loses the race, X cancels, Y
// books A successfully.
func TestCoordinator_RebookAfterCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addSlot(t, "p1", time.Hour)
	x := f.addInterviewee(t, "p1", "app-x", true)
	y := f.addInterviewee(t, "p1", "app-y", true)

	require.NoError(t, f.coord.Book(ctx, "p1", x.ApplicationID, a.ID))
	require.ErrorIs(t, f.coord.Book(ctx, "p1", y.ApplicationID, a.ID), models.ErrSlotTaken)

	gotX, err := f.db.Interviewees().Find(ctx, x.ID)
	require.NoError(t, err)
	require.NoError(t, f.coord.Cancel(ctx, gotX.ID, CancelOptions{}))

	require.NoError(t, f.coord.Book(ctx, "p1", y.ApplicationID, a.ID))

	gotY, err := f.db.Interviewees().Find(ctx, y.ID)
	require.NoError(t, err)
	require.NotNil(t, gotY.SlotID)
	require.Equal(t, a.ID, *gotY.SlotID)

	f.requireConsistent(t, "p1")
}
