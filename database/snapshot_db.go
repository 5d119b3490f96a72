package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const snapshotsTable = "history_snapshots"

// Stack names used by the workspace.
const (
	UndoStack = "undo"
	RedoStack = "redo"
)

// SnapshotStack is a persisted stack of serialized family states. Several
// stacks share one table and are told apart by name.
type SnapshotStack struct {
	db   *sql.DB
	name string
}

// NewSnapshotStack returns the stack called name stored in db.
func NewSnapshotStack(db *sql.DB, name string) *SnapshotStack {
	return &SnapshotStack{db: db, name: name}
}

// Push stores snapshot on top of the stack.
func (s *SnapshotStack) Push(snapshot []byte) error {
	queryBuilder := psql.Insert(snapshotsTable).
		Columns("stack", "payload", "created_at").
		Values(s.name, snapshot, time.Now().Unix())

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for Push: %w", err)
	}
	if _, err := s.db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to push %s snapshot: %w", s.name, err)
	}
	return nil
}

// Pop removes and returns the newest snapshot. ok is false when the stack is
// empty.
func (s *SnapshotStack) Pop() (snapshot []byte, ok bool, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction for Pop: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	selectBuilder := psql.Select("id", "payload").
		From(snapshotsTable).
		Where(sq.Eq{"stack": s.name}).
		OrderBy("id DESC").
		Limit(1)
	sqlStr, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build SQL for Pop: %w", err)
	}

	var id int64
	err = tx.QueryRow(sqlStr, args...).Scan(&id, &snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		tx.Rollback()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read top of %s stack: %w", s.name, err)
	}

	deleteBuilder := psql.Delete(snapshotsTable).Where(sq.Eq{"id": id})
	sqlStr, args, err = deleteBuilder.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build SQL for Pop delete: %w", err)
	}
	if _, err = tx.Exec(sqlStr, args...); err != nil {
		return nil, false, fmt.Errorf("failed to remove top of %s stack: %w", s.name, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit Pop on %s stack: %w", s.name, err)
	}
	return snapshot, true, nil
}

// Trim drops the oldest snapshots until at most max remain.
func (s *SnapshotStack) Trim(max int) error {
	queryBuilder := psql.Delete(snapshotsTable).
		Where(sq.Eq{"stack": s.name}).
		Where(sq.Expr("id NOT IN (SELECT id FROM "+snapshotsTable+" WHERE stack = ? ORDER BY id DESC LIMIT ?)", s.name, max))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for Trim: %w", err)
	}
	if _, err := s.db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to trim %s stack to %d: %w", s.name, max, err)
	}
	return nil
}

// Clear empties the stack.
func (s *SnapshotStack) Clear() error {
	sqlStr, args, err := psql.Delete(snapshotsTable).Where(sq.Eq{"stack": s.name}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for Clear: %w", err)
	}
	if _, err := s.db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to clear %s stack: %w", s.name, err)
	}
	return nil
}

// Len counts the stored snapshots.
func (s *SnapshotStack) Len() (int, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").From(snapshotsTable).Where(sq.Eq{"stack": s.name}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for Len: %w", err)
	}
	var n int
	if err := s.db.QueryRow(sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s stack: %w", s.name, err)
	}
	return n, nil
}
