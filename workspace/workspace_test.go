package workspace

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/camden-git/familyring/database"
	"github.com/camden-git/familyring/family"
	"github.com/camden-git/familyring/metrics"
	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/realtime"
	"github.com/camden-git/familyring/repository"
)

type memoryStore struct {
	people   []models.Person
	listErr  error
	writeErr error
	writes   int
}

func (m *memoryStore) ListAll() ([]models.Person, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Person(nil), m.people...), nil
}

func (m *memoryStore) GetByCode(code string) (*models.Person, error) {
	for i := range m.people {
		if m.people[i].Code == code {
			p := m.people[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryStore) Count() (int64, error) {
	return int64(len(m.people)), nil
}

func (m *memoryStore) ReplaceAll(people []*models.Person) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.people = m.people[:0]
	for _, p := range people {
		m.people = append(m.people, *p)
	}
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordingNotifier) Broadcast(event realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type WorkspaceSuite struct {
	suite.Suite
	store    *memoryStore
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	ws       *Workspace
}

func TestWorkspaceSuite(t *testing.T) {
	suite.Run(t, new(WorkspaceSuite))
}

func (s *WorkspaceSuite) SetupTest() {
	s.store = &memoryStore{}
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.ws = s.open(true)
}

func (s *WorkspaceSuite) open(seed bool) *Workspace {
	ws, err := Open(Options{Store: s.store, Notifier: s.notifier, Metrics: s.metrics, SeedOnEmpty: seed})
	s.Require().NoError(err)
	return ws
}

func grandchild() models.PersonFields {
	return models.PersonFields{Name: "Grandchild", BirthDate: "01.01.2025", BirthPlace: "Lakeside", Gender: "f"}
}

func (s *WorkspaceSuite) TestOpenSeedsEmptyStore() {
	s.Equal(len(family.SeedRecords()), len(s.ws.List()))
	s.Len(s.store.people, len(family.SeedRecords()))
	s.Equal(1, s.store.writes)
	s.Equal(float64(len(family.SeedRecords())), testutil.ToFloat64(s.metrics.People))
}

func (s *WorkspaceSuite) TestOpenWithoutSeeding() {
	s.store = &memoryStore{}
	ws := s.open(false)
	s.Empty(ws.List())
	s.Zero(s.store.writes)
}

func (s *WorkspaceSuite) TestOpenLoadsStoredPeople() {
	s.store = &memoryStore{people: []models.Person{{Code: "1", Name: "Stored", Gender: models.GenderOther}}}
	ws := s.open(true)

	people := ws.List()
	s.Require().Len(people, 1)
	s.Equal("Stored", people[0].Name)
	s.Zero(s.store.writes)
}

func (s *WorkspaceSuite) TestOpenFallsBackToSeedOnLoadError() {
	s.store = &memoryStore{listErr: errors.New("disk on fire")}
	ws := s.open(false)

	s.Len(ws.List(), len(family.SeedRecords()))
	s.Zero(s.store.writes, "unreadable data is not overwritten on open")
}

func (s *WorkspaceSuite) TestMutationPersistsAndNotifies() {
	created, err := s.ws.CreateChild("1a", grandchild())
	s.Require().NoError(err)
	s.Equal("1A1", created.Code)

	stored, err := s.store.GetByCode("1A1")
	s.Require().NoError(err)
	s.Equal("Grandchild", stored.Name)

	s.Require().Len(s.notifier.events, 1)
	ev := s.notifier.events[0]
	s.Equal(realtime.EventPeopleChanged, ev.Type)
	s.Equal("create child", ev.Operation)
	s.Equal(6, ev.Total)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create child", "ok")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.UndoDepth))
}

func (s *WorkspaceSuite) TestFailedOperationNeitherPersistsNorNotifies() {
	writes := s.store.writes

	_, err := s.ws.CreateChild("9Z", grandchild())
	var nf *models.ParentNotFoundError
	s.Require().ErrorAs(err, &nf)

	s.Equal(writes, s.store.writes)
	s.Empty(s.notifier.events)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create child", "error")))
}

func (s *WorkspaceSuite) TestPersistFailureIsReported() {
	s.store.writeErr = errors.New("read-only")

	err := s.ws.DeletePerson("1C")
	s.Require().ErrorIs(err, ErrPersist)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PersistFailures))

	_, err = s.ws.Find("1C")
	var nf *models.PersonNotFoundError
	s.Require().ErrorAs(err, &nf, "the change stays applied in memory")
}

func (s *WorkspaceSuite) TestUndoRedo() {
	s.Require().NoError(s.ws.DeletePerson("1B"))
	s.Len(s.ws.List(), 4)

	ok, err := s.ws.Undo()
	s.Require().NoError(err)
	s.True(ok)
	s.Len(s.ws.List(), 5)
	s.Len(s.store.people, 5)

	ok, err = s.ws.Redo()
	s.Require().NoError(err)
	s.True(ok)
	s.Len(s.store.people, 4)

	ok, err = s.ws.Redo()
	s.Require().NoError(err)
	s.False(ok)

	var types []string
	for _, ev := range s.notifier.events {
		types = append(types, ev.Type)
	}
	s.Equal([]string{realtime.EventPeopleChanged, realtime.EventHistoryChanged, realtime.EventHistoryChanged}, types)
}

func (s *WorkspaceSuite) TestImportCountsRecords() {
	res, err := s.ws.Import([]models.Record{
		{Code: "1", Name: "Root"},
		{Code: "1A", Name: "Child", ParentCode: "1", PartnerCode: "9Q"},
		{Code: "", Name: "Nobody"},
	})
	s.Require().NoError(err)
	s.Equal(2, res.Imported)
	s.Equal(1, res.Skipped)
	s.Equal(1, res.Scrubbed)
	s.Len(s.store.people, 2)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.ImportedRecords))
}

func (s *WorkspaceSuite) TestConcurrentCallersAreSerialized() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ws.CreateChild("1A", grandchild())
			s.NoError(err)
			s.ws.List()
		}()
	}
	wg.Wait()

	s.Len(s.ws.List(), 25)
	s.Len(s.store.people, 25)
}

func (s *WorkspaceSuite) TestSQLiteBackedWorkspaceSurvivesRestart() {
	dir := s.T().TempDir()
	dbPath := filepath.Join(dir, "familyring.db")

	open := func() (*Workspace, func()) {
		gormDB, err := database.InitGormDB(dbPath)
		s.Require().NoError(err)
		s.Require().NoError(database.AutoMigrateModels(gormDB))
		sqlDB, err := database.InitDB(dbPath)
		s.Require().NoError(err)

		history := family.NewHistory(
			database.NewSnapshotStack(sqlDB, database.UndoStack),
			database.NewSnapshotStack(sqlDB, database.RedoStack),
			family.DefaultUndoDepth,
		)
		ws, err := Open(Options{Store: repository.NewPersonRepository(gormDB), History: history, SeedOnEmpty: true})
		s.Require().NoError(err)
		return ws, func() {
			sqlDB.Close()
			if raw, err := gormDB.DB(); err == nil {
				raw.Close()
			}
		}
	}

	ws, closeFn := open()
	_, err := ws.CreateChild("1", models.PersonFields{Name: "Eldest", BirthDate: "01.01.1990", BirthPlace: "Town", Gender: "m"})
	s.Require().NoError(err)
	closeFn()

	ws, closeFn = open()
	defer closeFn()
	eldest, err := ws.Find("1A")
	s.Require().NoError(err)
	s.Equal("Eldest", eldest.Name)
	first, err := ws.Find("1B")
	s.Require().NoError(err)
	s.Equal("First Child", first.Name)

	ok, err := ws.Undo()
	s.Require().NoError(err)
	s.True(ok)
	first, err = ws.Find("1A")
	s.Require().NoError(err)
	s.Equal("First Child", first.Name)
}
