package iotesting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/artsfest/festsync/pkg/db"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/google/uuid"
)

// MemStore is an in-memory db.Store. It keeps records in insertion order
// and counts calls.
type MemStore struct {
	mu   sync.Mutex
	data map[festival.Kind][]festival.Record

	// Inserts, Updates, Touches and Deletes count successful write calls.
	Inserts, Updates, Touches, Deletes int

	// FailInsert and FailUpdate make the corresponding call return an
	// error when set.
	FailInsert, FailUpdate error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[festival.Kind][]festival.Record)}
}

var _ db.Store = (*MemStore)(nil)

// Seed adds records as if they had been inserted. Records without an ID
// get a fresh one.
func (s *MemStore) Seed(recs ...festival.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		rec = rec.Clone()
		if rec.Base().ID == "" {
			rec.Base().ID = uuid.NewString()
		}
		s.data[rec.Kind()] = append(s.data[rec.Kind()], rec)
	}
}

// All returns copies of the stored records of a kind.
func (s *MemStore) All(k festival.Kind) []festival.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]festival.Record, len(s.data[k]))
	for i, rec := range s.data[k] {
		res[i] = rec.Clone()
	}
	return res
}

func (s *MemStore) Find(
	_ context.Context,
	k festival.Kind,
) ([]festival.Record, error) {
	return s.All(k), nil
}

func (s *MemStore) FindByID(
	_ context.Context,
	k festival.Kind,
	id string,
) (festival.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	if i := s.indexByID(k, id); i >= 0 {
		return s.data[k][i].Clone(), nil
	}
	return nil, nil
}

func (s *MemStore) FindByKey(
	_ context.Context,
	k festival.Kind,
	key string,
) (festival.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.data[k] {
		if key != "" && storedKey(rec) == key {
			return rec.Clone(), nil
		}
	}
	return nil, nil
}

// storedKey computes the natural key from the stored columns the way the
// PostgreSQL store does. Team aliases are not resolved.
func storedKey(rec festival.Record) string {
	if t, ok := rec.(*festival.Team); ok {
		return strings.ToUpper(strings.TrimSpace(t.Name))
	}
	return rec.NaturalKey()
}

func (s *MemStore) Insert(
	_ context.Context,
	rec festival.Record,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return "", s.FailInsert
	}
	id := uuid.NewString()
	rec.Base().ID = id
	s.data[rec.Kind()] = append(s.data[rec.Kind()], rec.Clone())
	s.Inserts++
	return id, nil
}

func (s *MemStore) Update(
	_ context.Context,
	rec festival.Record,
) (db.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res db.UpdateResult
	if s.FailUpdate != nil {
		return res, s.FailUpdate
	}
	k := rec.Kind()
	i := s.indexByID(k, rec.Base().ID)
	if i < 0 {
		return res, nil
	}
	res.Matched = true
	s.Updates++
	if festival.SameContent(s.data[k][i], rec) {
		return res, nil
	}
	res.Modified = true
	s.data[k][i] = rec.Clone()
	return res, nil
}

func (s *MemStore) Touch(
	_ context.Context,
	k festival.Kind,
	id string,
	at time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate != nil {
		return false, s.FailUpdate
	}
	i := s.indexByID(k, id)
	if i < 0 {
		return false, nil
	}
	s.data[k][i].Base().UpdatedAt = at
	s.Touches++
	return true, nil
}

func (s *MemStore) Delete(
	_ context.Context,
	k festival.Kind,
	id string,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(k, id)
	if i < 0 {
		return false, nil
	}
	s.data[k] = slices.Delete(s.data[k], i, i+1)
	s.Deletes++
	return true, nil
}

func (s *MemStore) indexByID(k festival.Kind, id string) int {
	return slices.IndexFunc(s.data[k], func(r festival.Record) bool {
		return r.Base().ID == id
	})
}

// String is handy in failing assertions.
func (s *MemStore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("MemStore{inserts: %d, updates: %d, deletes: %d}",
		s.Inserts, s.Updates, s.Deletes)
}
