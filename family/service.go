package family

import (
	"log"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/registry"
)

// Service runs the person lifecycle operations against an owned registry.
// It is synchronous and not safe for concurrent use; callers serialize access.
type Service struct {
	reg     *registry.Registry
	history *History
}

// Option configures a Service.
type Option func(*Service)

// WithHistory replaces the default in-memory history.
func WithHistory(h *History) Option {
	return func(s *Service) {
		s.history = h
	}
}

// NewService creates a service over an empty registry.
func NewService(opts ...Option) *Service {
	s := &Service{
		reg:     registry.New(),
		history: NewHistory(NewMemoryStack(), NewMemoryStack(), DefaultUndoDepth),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// apply runs fn against a copy of the registry and swaps it in only when fn
// succeeds, so a failed operation leaves no trace. Derived fields are
// recomputed and the previous state becomes one undo step.
func (s *Service) apply(op string, fn func(reg *registry.Registry) error) error {
	work := s.reg.Clone()
	if err := fn(work); err != nil {
		return err
	}
	recomputeDerived(work)

	before, err := encodeSnapshot(s.Records())
	if err != nil {
		log.Printf("Warning: could not snapshot state before %s: %v", op, err)
	} else if err := s.history.record(before); err != nil {
		log.Printf("Warning: could not record undo step for %s: %v", op, err)
	}
	s.reg = work
	return nil
}

// Find returns a copy of the person stored under code.
func (s *Service) Find(code string) (*models.Person, error) {
	code = codes.Normalize(code)
	p := s.reg.Find(code)
	if p == nil {
		return nil, &models.PersonNotFoundError{Code: code}
	}
	return p.Clone(), nil
}

// ListAll returns copies of every person ordered by generation, then code.
func (s *Service) ListAll() []*models.Person {
	all := s.reg.All()
	out := make([]*models.Person, len(all))
	for i, p := range all {
		out[i] = p.Clone()
	}
	return out
}

// Records returns the persistence form of every person in listing order.
func (s *Service) Records() []models.Record {
	all := s.reg.All()
	records := make([]models.Record, len(all))
	for i, p := range all {
		records[i] = p.ToRecord()
	}
	return records
}

// Len returns the number of people.
func (s *Service) Len() int {
	return s.reg.Len()
}

// RecomputeDerived recomputes generation and ring lineage for everyone.
func (s *Service) RecomputeDerived() {
	recomputeDerived(s.reg)
}

// Undo restores the state before the most recent operation. It reports false
// when there is nothing to undo.
func (s *Service) Undo() (bool, error) {
	return s.travel(func(current []byte) ([]byte, bool, error) {
		return s.history.step(s.history.undo, s.history.redo, current)
	})
}

// Redo reapplies the most recently undone operation.
func (s *Service) Redo() (bool, error) {
	return s.travel(func(current []byte) ([]byte, bool, error) {
		return s.history.step(s.history.redo, s.history.undo, current)
	})
}

// HistorySizes reports the available undo and redo steps.
func (s *Service) HistorySizes() (int, int, error) {
	return s.history.Sizes()
}

func (s *Service) travel(step func(current []byte) ([]byte, bool, error)) (bool, error) {
	current, err := encodeSnapshot(s.Records())
	if err != nil {
		return false, err
	}
	snapshot, ok, err := step(current)
	if err != nil || !ok {
		return false, err
	}
	records, err := decodeSnapshot(snapshot)
	if err != nil {
		return false, err
	}
	reg, _ := buildRegistry(records)
	s.reg = reg
	return true, nil
}
