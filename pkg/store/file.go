package store

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"sync"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/record"
)

// FileStore keeps people in memory and persists them as a JSON array.
// Changes are written on [FileStore.Save] and [FileStore.Close] and can be
// dropped with [FileStore.Discard].
type FileStore struct {
	mu     sync.RWMutex
	path   string
	people []record.Person
	index  map[string]int
	saved  []record.Person // state as of load or last save
	dirty  bool
	closed bool
}

// OpenFile loads the store at path. A missing file is an empty store that
// will be created on the first save.
func OpenFile(path string) (*FileStore, error) {
	if err := kerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	people, err := record.ReadPeopleFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		people, err = nil, nil
	}
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "load %s", path)
	}
	s := NewMemory(people)
	s.path = path
	return s, nil
}

// NewMemory returns a store over a copy of people that is never written to
// disk. People without an ID are dropped.
func NewMemory(people []record.Person) *FileStore {
	s := &FileStore{index: make(map[string]int, len(people))}
	for _, p := range people {
		if p.ID == "" {
			continue
		}
		if _, dup := s.index[p.ID]; dup {
			continue
		}
		s.index[p.ID] = len(s.people)
		s.people = append(s.people, p.Clone())
	}
	s.saved = clonePeople(s.people)
	return s
}

// People returns a copy of all stored people in insertion order.
func (s *FileStore) People(ctx context.Context) ([]record.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed()
	}
	return clonePeople(s.people), nil
}

// Create adds p, assigning a UUID when p.ID is empty.
func (s *FileStore) Create(ctx context.Context, p record.Person) (record.Person, error) {
	p = prepareCreate(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return record.Person{}, errClosed()
	}
	if _, ok := s.index[p.ID]; ok {
		return record.Person{}, errDuplicate(p.ID)
	}
	s.index[p.ID] = len(s.people)
	s.people = append(s.people, p)
	s.dirty = true
	return p.Clone(), nil
}

// Update replaces the stored person with the same ID.
func (s *FileStore) Update(ctx context.Context, p record.Person) error {
	if p.ID == "" {
		return errMissingID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}
	i, ok := s.index[p.ID]
	if !ok {
		return errNotFound(p.ID)
	}
	s.people[i] = p.Clone()
	s.dirty = true
	return nil
}

// Save writes pending changes to disk. Memory stores only mark them as the
// state Discard returns to.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *FileStore) save() error {
	if !s.dirty {
		return nil
	}
	if s.path != "" {
		if err := record.WritePeopleFile(slices.Clone(s.people), s.path); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeStore, err, "save %s", s.path)
		}
	}
	s.saved = clonePeople(s.people)
	s.dirty = false
	return nil
}

// Discard drops changes made since the last save. A following Close writes
// nothing.
func (s *FileStore) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return
	}
	s.people = clonePeople(s.saved)
	s.index = make(map[string]int, len(s.people))
	for i, p := range s.people {
		s.index[p.ID] = i
	}
	s.dirty = false
}

// Close saves pending changes. Further calls fail with STORE_CLOSED.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.save()
}

func clonePeople(people []record.Person) []record.Person {
	out := make([]record.Person, len(people))
	for i, p := range people {
		out[i] = p.Clone()
	}
	return out
}

func errClosed() error {
	return kerrors.New(kerrors.ErrCodeStoreClosed, "store is closed")
}

var (
	_ Store     = (*FileStore)(nil)
	_ Discarder = (*FileStore)(nil)
)
