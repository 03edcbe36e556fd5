package repo

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
)

// NewMemory returns an in-memory Client with the same conditional-write
// semantics as the mongo one. Used by tests and local runs without a
// database. RunTxn serializes transactions and rolls back every write
// of a failed one, mirroring the all-or-nothing unit of work.
func NewMemory() Client {
	return &memoryClient{
		processes:    map[string]models.InterviewProcess{},
		slots:        map[string]models.InterviewSlot{},
		interviewees: map[string]models.Interviewee{},
	}
}

type memoryClient struct {
	mu  sync.Mutex
	seq int

	processes    map[string]models.InterviewProcess
	slots        map[string]models.InterviewSlot
	interviewees map[string]models.Interviewee
}

type memTxnKey struct{}

func (m *memoryClient) RunTxn(ctx context.Context, do func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapProcesses := maps.Clone(m.processes)
	snapSlots := maps.Clone(m.slots)
	snapInterviewees := maps.Clone(m.interviewees)

	err := do(context.WithValue(ctx, memTxnKey{}, true))
	if err != nil {
		m.processes = snapProcesses
		m.slots = snapSlots
		m.interviewees = snapInterviewees
	}

	return err
}

func (m *memoryClient) Processes() models.ProcessesRepo       { return memProcesses{m} }
func (m *memoryClient) Slots() models.SlotsRepo               { return memSlots{m} }
func (m *memoryClient) Interviewees() models.IntervieweesRepo { return memInterviewees{m} }

func (m *memoryClient) Close(context.Context) error { return nil }

// lock is a no-op inside a transaction, which already holds the mutex.
func (m *memoryClient) lock(ctx context.Context) func() {
	if ctx.Value(memTxnKey{}) != nil {
		return func() {}
	}

	m.mu.Lock()
	return m.mu.Unlock
}

func (m *memoryClient) nextID() string {
	m.seq++
	return fmt.Sprintf("%024x", m.seq)
}

type memProcesses struct {
	c *memoryClient
}

func (r memProcesses) Create(ctx context.Context, jobID string, now int64) (*models.InterviewProcess, error) {
	defer r.c.lock(ctx)()

	for _, p := range r.c.processes {
		if p.JobID == jobID {
			return nil, errors.Wrap(models.ErrInvalidInput, "job already has an interview process")
		}
	}

	process := models.InterviewProcess{ID: r.c.nextID(), JobID: jobID, CreatedAt: now}
	r.c.processes[process.ID] = process
	return &process, nil
}

func (r memProcesses) Find(ctx context.Context, id string) (*models.InterviewProcess, error) {
	defer r.c.lock(ctx)()

	if p, ok := r.c.processes[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r memProcesses) FindByJob(ctx context.Context, jobID string) (*models.InterviewProcess, error) {
	defer r.c.lock(ctx)()

	for _, p := range r.c.processes {
		if p.JobID == jobID {
			return &p, nil
		}
	}
	return nil, nil
}

type memSlots struct {
	c *memoryClient
}

func (r memSlots) InsertBatch(ctx context.Context, slots []models.InterviewSlot) ([]models.InterviewSlot, error) {
	defer r.c.lock(ctx)()

	for i := range slots {
		slots[i].ID = r.c.nextID()
		r.c.slots[slots[i].ID] = slots[i]
	}
	return slots, nil
}

func (r memSlots) Find(ctx context.Context, id string) (*models.InterviewSlot, error) {
	defer r.c.lock(ctx)()

	if s, ok := r.c.slots[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r memSlots) ListByProcess(ctx context.Context, processID string) ([]models.InterviewSlot, error) {
	defer r.c.lock(ctx)()

	var slots []models.InterviewSlot
	for _, s := range r.c.slots {
		if s.ProcessID == processID {
			slots = append(slots, s)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartsAt < slots[j].StartsAt })
	return slots, nil
}

func (r memSlots) CountByProcess(ctx context.Context, processID string) (int64, error) {
	slots, err := r.ListByProcess(ctx, processID)
	return int64(len(slots)), err
}

func (r memSlots) ListWithin(ctx context.Context, from, to int64) ([]models.InterviewSlot, error) {
	defer r.c.lock(ctx)()

	var slots []models.InterviewSlot
	for _, s := range r.c.slots {
		if s.StartsAt < to && s.EndsAt > from {
			slots = append(slots, s)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartsAt < slots[j].StartsAt })
	return slots, nil
}

func (r memSlots) SetBooked(ctx context.Context, id string, from, to bool) (bool, error) {
	defer r.c.lock(ctx)()

	s, ok := r.c.slots[id]
	if !ok || s.Booked != from {
		return false, nil
	}

	s.Booked = to
	r.c.slots[id] = s
	return true, nil
}

func (r memSlots) Delete(ctx context.Context, id string, onlyUnbooked bool) (bool, error) {
	defer r.c.lock(ctx)()

	s, ok := r.c.slots[id]
	if !ok || (onlyUnbooked && s.Booked) {
		return false, nil
	}

	delete(r.c.slots, id)
	return true, nil
}

type memInterviewees struct {
	c *memoryClient
}

func (r memInterviewees) Insert(ctx context.Context, item models.Interviewee) (*models.Interviewee, error) {
	defer r.c.lock(ctx)()

	for _, inv := range r.c.interviewees {
		if inv.ProcessID == item.ProcessID && inv.ApplicationID == item.ApplicationID {
			return nil, errors.Wrap(models.ErrInvalidInput, "application already tracked in this process")
		}
	}

	item.ID = r.c.nextID()
	item.Version = 1
	r.c.interviewees[item.ID] = item
	return &item, nil
}

func (r memInterviewees) Find(ctx context.Context, id string) (*models.Interviewee, error) {
	defer r.c.lock(ctx)()

	if inv, ok := r.c.interviewees[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (r memInterviewees) FindPair(ctx context.Context, processID, applicationID string) (*models.Interviewee, error) {
	defer r.c.lock(ctx)()

	for _, inv := range r.c.interviewees {
		if inv.ProcessID == processID && inv.ApplicationID == applicationID {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r memInterviewees) ListByProcess(ctx context.Context, processID string) ([]models.Interviewee, error) {
	defer r.c.lock(ctx)()

	var items []models.Interviewee
	for _, inv := range r.c.interviewees {
		if inv.ProcessID == processID {
			items = append(items, inv)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt != items[j].AddedAt {
			return items[i].AddedAt > items[j].AddedAt
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (r memInterviewees) SetSlot(ctx context.Context, id string, version int64, slotID *string) (bool, error) {
	defer r.c.lock(ctx)()

	inv, ok := r.c.interviewees[id]
	if !ok || inv.Version != version {
		return false, nil
	}

	inv.SlotID = slotID
	inv.Version++
	r.c.interviewees[id] = inv
	return true, nil
}

func (r memInterviewees) SetAssessment(
	ctx context.Context,
	id string,
	version int64,
	rating *models.AssessmentRating,
	notes *string,
) (bool, error) {
	defer r.c.lock(ctx)()

	inv, ok := r.c.interviewees[id]
	if !ok || inv.Version != version {
		return false, nil
	}

	if rating != nil {
		inv.Rating = rating
	}
	if notes != nil {
		inv.Notes = notes
	}
	inv.Version++
	r.c.interviewees[id] = inv
	return true, nil
}

func (r memInterviewees) MarkInvited(ctx context.Context, ids []string, at int64) (int64, error) {
	defer r.c.lock(ctx)()

	var n int64
	for _, id := range ids {
		inv, ok := r.c.interviewees[id]
		if !ok {
			continue
		}
		inv.InvitedAt = &at
		r.c.interviewees[id] = inv
		n++
	}
	return n, nil
}

func (r memInterviewees) Delete(ctx context.Context, id string) (bool, error) {
	defer r.c.lock(ctx)()

	if _, ok := r.c.interviewees[id]; !ok {
		return false, nil
	}

	delete(r.c.interviewees, id)
	return true, nil
}
