package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// mockStore is an in-memory EventRequestStore with the same version check as
// the real backends
type mockStore struct {
	records map[int]*model.EventRequest
	audit   []db.AuditEntry
	nextID  int

	// concurrentWrites run one per UpdateEventRequest call, before the version
	// check, to simulate another writer getting in first
	concurrentWrites []func(er *model.EventRequest)

	getErr    error
	listErr   error
	insertErr error

	updateCalls int
}

func newMockStore(records ...model.EventRequest) *mockStore {
	m := &mockStore{records: map[int]*model.EventRequest{}, nextID: 1}
	for _, er := range records {
		if er.Version == 0 {
			er.Version = 1
		}
		rec := er
		m.records[er.ID] = &rec
		if er.ID >= m.nextID {
			m.nextID = er.ID + 1
		}
	}
	return m
}

func (m *mockStore) ListEventRequests(ctx context.Context) ([]model.EventRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]int, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]model.EventRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.records[id])
	}
	return out, nil
}

func (m *mockStore) GetEventRequest(ctx context.Context, id int) (*model.EventRequest, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("event request %d: %w", id, db.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStore) InsertEventRequest(ctx context.Context, er *model.EventRequest) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	er.ID = m.nextID
	er.Version = 1
	m.nextID++
	rec := *er
	m.records[er.ID] = &rec
	return nil
}

func (m *mockStore) UpdateEventRequest(ctx context.Context, id int, update *model.EventRequestUpdate, entry db.AuditEntry) (*model.EventRequest, error) {
	m.updateCalls++
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("event request %d: %w", id, db.ErrNotFound)
	}

	if len(m.concurrentWrites) > 0 {
		write := m.concurrentWrites[0]
		m.concurrentWrites = m.concurrentWrites[1:]
		write(rec)
		rec.Version++
	}

	if rec.Version != update.ExpectedVersion {
		return nil, fmt.Errorf("event request %d: %w", id, db.ErrVersionConflict)
	}

	update.Apply(rec)
	rec.Version++
	entry.Version = rec.Version
	m.audit = append(m.audit, entry)

	cp := *rec
	return &cp, nil
}

func (m *mockStore) ListAuditEntries(ctx context.Context, eventRequestID int) ([]db.AuditEntry, error) {
	var out []db.AuditEntry
	for _, e := range m.audit {
		if e.EventRequestID == eventRequestID {
			out = append(out, e)
		}
	}
	return out, nil
}

// freezeTime pins the services clock for the duration of a test
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

func intPtr(n int) *int { return &n }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
