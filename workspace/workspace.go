// Package workspace serializes access to the family service for concurrent
// callers and takes care of what follows each operation: writing the people
// table, notifying renderers and updating metrics.
package workspace

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/camden-git/familyring/family"
	"github.com/camden-git/familyring/metrics"
	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/realtime"
	"github.com/camden-git/familyring/repository"
)

// ErrPersist wraps failures to write the people table. The operation itself
// has been applied in memory and the next successful write catches up.
var ErrPersist = errors.New("failed to persist family")

// Notifier receives change events.
type Notifier interface {
	Broadcast(event realtime.Event)
}

// Options configures Open.
type Options struct {
	Store       repository.PersonRepositoryInterface
	History     *family.History
	Notifier    Notifier
	Metrics     *metrics.Metrics
	SeedOnEmpty bool
}

// Workspace is the single entry point to the family for servers and commands.
type Workspace struct {
	mu       sync.Mutex
	svc      *family.Service
	store    repository.PersonRepositoryInterface
	notifier Notifier
	metrics  *metrics.Metrics
}

// Open loads the stored family. An empty store is filled with the seed family
// when opts.SeedOnEmpty is set; a store that cannot be read falls back to the
// seed family without overwriting what is stored.
func Open(opts Options) (*Workspace, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("workspace: a person store is required")
	}
	var svcOpts []family.Option
	if opts.History != nil {
		svcOpts = append(svcOpts, family.WithHistory(opts.History))
	}
	w := &Workspace{
		svc:      family.NewService(svcOpts...),
		store:    opts.Store,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
	}

	people, err := opts.Store.ListAll()
	switch {
	case err != nil:
		log.Printf("Error loading stored family: %v. Falling back to seed data", err)
		w.svc.Load(family.SeedRecords())
	case len(people) == 0 && opts.SeedOnEmpty:
		log.Printf("workspace: no people stored, seeding starter family")
		w.svc.Load(family.SeedRecords())
		if err := w.persist(); err != nil {
			return nil, err
		}
	default:
		records := make([]models.Record, len(people))
		for i := range people {
			records[i] = people[i].ToRecord()
		}
		res := w.svc.Load(records)
		if res.Skipped > 0 || res.Scrubbed > 0 {
			log.Printf("Warning: stored family had %d unusable records and %d dangling references", res.Skipped, res.Scrubbed)
		}
	}
	log.Printf("workspace: loaded %d people", w.svc.Len())
	w.observeSizes()
	return w, nil
}

// mutate runs one lifecycle operation under the lock and, when it succeeds,
// persists the family and notifies listeners.
func (w *Workspace) mutate(op, code string, fn func(svc *family.Service) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	err := fn(w.svc)
	if err == nil {
		err = w.persist()
		w.notify(realtime.EventPeopleChanged, op, code)
	}
	if w.metrics != nil {
		w.metrics.ObserveOperation(op, start, err)
	}
	w.observeSizes()
	return err
}

func (w *Workspace) persist() error {
	if err := w.store.ReplaceAll(w.svc.ListAll()); err != nil {
		log.Printf("Error persisting family: %v", err)
		if w.metrics != nil {
			w.metrics.IncrementPersistFailure()
		}
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (w *Workspace) notify(eventType, op, code string) {
	if w.notifier == nil {
		return
	}
	w.notifier.Broadcast(realtime.Event{
		Type:      eventType,
		Operation: op,
		Code:      code,
		Total:     w.svc.Len(),
	})
}

func (w *Workspace) observeSizes() {
	if w.metrics == nil {
		return
	}
	undo, redo, err := w.svc.HistorySizes()
	if err != nil {
		log.Printf("Warning: could not read history sizes: %v", err)
	}
	w.metrics.SetSizes(w.svc.Len(), undo, redo)
}

// CreateRoot creates the founding ancestor.
func (w *Workspace) CreateRoot(fields models.PersonFields) (*models.Person, error) {
	var p *models.Person
	err := w.mutate("create root", "1", func(svc *family.Service) (err error) {
		p, err = svc.CreateRoot(fields)
		return err
	})
	return p, err
}

// CreatePartner creates the partner of partnerCode.
func (w *Workspace) CreatePartner(partnerCode string, fields models.PersonFields) (*models.Person, error) {
	var p *models.Person
	err := w.mutate("create partner", partnerCode, func(svc *family.Service) (err error) {
		p, err = svc.CreatePartner(partnerCode, fields)
		return err
	})
	return p, err
}

// CreateChild files a child under parentCode.
func (w *Workspace) CreateChild(parentCode string, fields models.PersonFields) (*models.Person, error) {
	var p *models.Person
	err := w.mutate("create child", parentCode, func(svc *family.Service) (err error) {
		p, err = svc.CreateChild(parentCode, fields)
		return err
	})
	return p, err
}

// UpdatePerson edits the person stored under code.
func (w *Workspace) UpdatePerson(code string, fields models.PersonFields) (*models.Person, error) {
	var p *models.Person
	err := w.mutate("update person", code, func(svc *family.Service) (err error) {
		p, err = svc.UpdatePerson(code, fields)
		return err
	})
	return p, err
}

// DeletePerson removes the person stored under code.
func (w *Workspace) DeletePerson(code string) error {
	return w.mutate("delete person", code, func(svc *family.Service) error {
		return svc.DeletePerson(code)
	})
}

// Import replaces the family with records.
func (w *Workspace) Import(records []models.Record) (family.ImportResult, error) {
	var res family.ImportResult
	err := w.mutate("import", "", func(svc *family.Service) (err error) {
		res, err = svc.Import(records)
		return err
	})
	if err == nil && w.metrics != nil {
		w.metrics.ObserveImport(res.Imported, res.Skipped, res.Scrubbed)
	}
	return res, err
}

// Undo reverts the most recent operation. It reports false when there is
// nothing to undo.
func (w *Workspace) Undo() (bool, error) {
	return w.travel("undo", (*family.Service).Undo)
}

// Redo reapplies the most recently undone operation.
func (w *Workspace) Redo() (bool, error) {
	return w.travel("redo", (*family.Service).Redo)
}

func (w *Workspace) travel(op string, step func(*family.Service) (bool, error)) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	moved, err := step(w.svc)
	if err == nil && moved {
		err = w.persist()
		w.notify(realtime.EventHistoryChanged, op, "")
	}
	if w.metrics != nil {
		w.metrics.ObserveOperation(op, start, err)
	}
	w.observeSizes()
	return moved, err
}

// Find returns the person stored under code.
func (w *Workspace) Find(code string) (*models.Person, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.Find(code)
}

// List returns everyone in listing order.
func (w *Workspace) List() []*models.Person {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.ListAll()
}

// Search filters people by name, code or ring lineage.
func (w *Workspace) Search(query string) []*models.Person {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.Search(query)
}

// Records returns the export form of everyone in listing order.
func (w *Workspace) Records() []models.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.Records()
}

// Stats summarizes the family.
func (w *Workspace) Stats() family.Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.Stats()
}

// Tree returns the family as nested nodes.
func (w *Workspace) Tree() []*family.TreeNode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.Tree()
}

// HistorySizes reports the available undo and redo steps.
func (w *Workspace) HistorySizes() (undo, redo int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.svc.HistorySizes()
}
