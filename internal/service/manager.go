package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/remote"
	"github.com/amterp/palette/internal/validate"
)

// Status is the manager's lifecycle state.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
	StatusErrored       Status = "errored"
)

// Snapshot is a copy of the manager state handed to readers and observers.
type Snapshot struct {
	Status    Status
	Records   []model.Color
	Visible   []model.Color
	Filter    string
	IsLoading bool
	LastError palerr.ErrorKind
}

// Manager owns the local view of the remote color collection.
//
// Remote calls run without holding the lock; only the state-apply step of each
// operation is serialized. Two AddColor calls for the same name or hex that
// overlap in flight both pass the duplicate check, since each only sees
// records already applied. The remote store may then hold duplicates.
type Manager struct {
	store remote.ColorStore

	mu        sync.RWMutex
	status    Status
	records   []model.Color
	filter    string
	lastError palerr.ErrorKind

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// NewManager creates a manager in the Uninitialized state.
func NewManager(store remote.ColorStore) *Manager {
	return &Manager{
		store:     store,
		status:    StatusUninitialized,
		records:   []model.Color{},
		observers: make(map[int]func(Snapshot)),
	}
}

// Initialize loads the collection from the remote store. It may be called
// again as a manual retry after a failure.
func (m *Manager) Initialize(ctx context.Context) error {
	m.apply(func() {
		m.status = StatusLoading
	})

	colors, err := m.store.List(ctx)
	if err != nil {
		m.apply(func() {
			m.records = []model.Color{}
			m.lastError = palerr.KindFetchFailed
			m.status = StatusErrored
		})
		return &palerr.OperationError{Kind: palerr.KindFetchFailed, Err: err}
	}

	m.apply(func() {
		m.records = slices.Clone(colors)
		if m.records == nil {
			m.records = []model.Color{}
		}
		m.lastError = palerr.KindNone
		m.status = StatusReady
	})
	return nil
}

// AddColor validates the candidate against the current records and, if it is
// new, creates it remotely and appends the returned record.
// Validation failures never reach the remote store and leave LastError alone.
func (m *Manager) AddColor(ctx context.Context, name, hex string) (*model.Color, error) {
	if err := validate.ValidateNew(name, hex); err != nil {
		return nil, err
	}

	m.mu.RLock()
	dups := validate.FindDuplicates(name, hex, m.records)
	m.mu.RUnlock()
	if dups.Any() {
		return nil, palerr.Duplicate(dups.ByName, dups.ByHex)
	}

	created, err := m.store.Create(ctx, validate.NormalizeName(name), validate.NormalizeHex(hex))
	if err != nil {
		m.apply(func() {
			m.lastError = palerr.KindAddFailed
		})
		return nil, &palerr.OperationError{Kind: palerr.KindAddFailed, Err: err}
	}

	record := *created
	m.apply(func() {
		m.records = append(m.records, record)
		m.lastError = palerr.KindNone
	})
	return &record, nil
}

// DeleteColor removes the color remotely, then locally. Removing an id that
// is not in the local collection is a local no-op once the remote succeeds.
// Confirming intent is the caller's job.
func (m *Manager) DeleteColor(ctx context.Context, id string) error {
	if err := m.store.Remove(ctx, id); err != nil {
		m.apply(func() {
			m.lastError = palerr.KindDeleteFailed
		})
		return &palerr.OperationError{Kind: palerr.KindDeleteFailed, Err: err}
	}

	m.apply(func() {
		if i := slices.IndexFunc(m.records, func(c model.Color) bool { return c.ID == id }); i >= 0 {
			m.records = slices.Delete(slices.Clone(m.records), i, i+1)
		}
		m.lastError = palerr.KindNone
	})
	return nil
}

// SetFilter stores the filter text verbatim.
func (m *Manager) SetFilter(text string) {
	m.apply(func() {
		m.filter = text
	})
}

// VisibleColors returns the records matching the current filter, in order.
func (m *Manager) VisibleColors() []model.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return visible(m.records, m.filter)
}

// Records returns a copy of all records in collection order.
func (m *Manager) Records() []model.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

// Filter returns the current filter text.
func (m *Manager) Filter() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// IsLoading reports whether Initialize is in flight.
func (m *Manager) IsLoading() bool {
	return m.Status() == StatusLoading
}

// Status returns the lifecycle state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// LastError returns the most recent operation failure, or KindNone.
func (m *Manager) LastError() palerr.ErrorKind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// Find resolves a record by exact id, then by case-insensitive name.
func (m *Manager) Find(idOrName string) (*model.Color, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.records {
		if c.ID == idOrName {
			return &c, nil
		}
	}
	key := validate.Fold(validate.NormalizeName(idOrName))
	for _, c := range m.records {
		if validate.Fold(validate.NormalizeName(c.Name)) == key {
			return &c, nil
		}
	}
	return nil, palerr.ColorNotFound(strings.TrimSpace(idOrName))
}

// Snapshot returns a consistent copy of the full state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to be called with a fresh snapshot after every state
// change. The returned func removes the observer.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.obsMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

// apply runs one state mutation under the lock, then notifies observers
// outside of it.
func (m *Manager) apply(mutate func()) {
	m.mu.Lock()
	mutate()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Status:    m.status,
		Records:   slices.Clone(m.records),
		Visible:   visible(m.records, m.filter),
		Filter:    m.filter,
		IsLoading: m.status == StatusLoading,
		LastError: m.lastError,
	}
}

func visible(records []model.Color, filter string) []model.Color {
	out := make([]model.Color, 0, len(records))
	for _, c := range records {
		if validate.Matches(c, filter) {
			out = append(out, c)
		}
	}
	return out
}
