package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/camden-git/familyring/family"
	"github.com/camden-git/familyring/models"
)

var _ family.SnapshotStack = (*SnapshotStack)(nil)

type SnapshotStackSuite struct {
	suite.Suite
	undo *SnapshotStack
	redo *SnapshotStack
}

func TestSnapshotStackSuite(t *testing.T) {
	suite.Run(t, new(SnapshotStackSuite))
}

func (s *SnapshotStackSuite) SetupTest() {
	db, err := InitDB(filepath.Join(s.T().TempDir(), "history.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })
	s.undo = NewSnapshotStack(db, UndoStack)
	s.redo = NewSnapshotStack(db, RedoStack)
}

func (s *SnapshotStackSuite) push(stack *SnapshotStack, items ...string) {
	for _, item := range items {
		s.Require().NoError(stack.Push([]byte(item)))
	}
}

func (s *SnapshotStackSuite) TestPopReturnsNewestFirst() {
	s.push(s.undo, "one", "two", "three")

	for _, want := range []string{"three", "two", "one"} {
		got, ok, err := s.undo.Pop()
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(want, string(got))
	}

	_, ok, err := s.undo.Pop()
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SnapshotStackSuite) TestStacksAreIndependent() {
	s.push(s.undo, "u1", "u2")
	s.push(s.redo, "r1")

	n, err := s.undo.Len()
	s.Require().NoError(err)
	s.Equal(2, n)

	s.Require().NoError(s.redo.Clear())
	n, err = s.redo.Len()
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.undo.Len()
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *SnapshotStackSuite) TestTrimKeepsNewest() {
	s.push(s.undo, "a", "b", "c", "d", "e")
	s.push(s.redo, "r1", "r2", "r3")

	s.Require().NoError(s.undo.Trim(2))

	n, err := s.undo.Len()
	s.Require().NoError(err)
	s.Equal(2, n)
	top, _, err := s.undo.Pop()
	s.Require().NoError(err)
	s.Equal("e", string(top))
	top, _, err = s.undo.Pop()
	s.Require().NoError(err)
	s.Equal("d", string(top))

	n, err = s.redo.Len()
	s.Require().NoError(err)
	s.Equal(3, n, "trimming one stack leaves the other alone")
}

func (s *SnapshotStackSuite) TestServiceHistoryPersists() {
	svc := family.NewService(family.WithHistory(family.NewHistory(s.undo, s.redo, 10)))
	svc.Load(family.SeedRecords())

	_, err := svc.CreateChild("1A", models.PersonFields{
		Name: "Grandchild", BirthDate: "01.01.2025", BirthPlace: "Lakeside", Gender: "f",
	})
	s.Require().NoError(err)

	n, err := s.undo.Len()
	s.Require().NoError(err)
	s.Equal(1, n)

	// a fresh service over the same stacks can undo the stored step
	restarted := family.NewService(family.WithHistory(family.NewHistory(s.undo, s.redo, 10)))
	restarted.Load(svc.Records())
	ok, err := restarted.Undo()
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(len(family.SeedRecords()), restarted.Len())

	n, err = s.redo.Len()
	s.Require().NoError(err)
	s.Equal(1, n)
}
