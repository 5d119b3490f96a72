package family

import (
	"encoding/json"
	"fmt"

	"github.com/camden-git/familyring/models"
)

// DefaultUndoDepth bounds each history stack.
const DefaultUndoDepth = 50

// SnapshotStack stores serialized registry states, newest on top.
type SnapshotStack interface {
	Push(snapshot []byte) error
	Pop() ([]byte, bool, error)
	Trim(max int) error
	Clear() error
	Len() (int, error)
}

// MemoryStack is a SnapshotStack held in process memory.
type MemoryStack struct {
	items [][]byte
}

// NewMemoryStack creates an empty in-memory stack.
func NewMemoryStack() *MemoryStack {
	return &MemoryStack{}
}

func (m *MemoryStack) Push(snapshot []byte) error {
	m.items = append(m.items, snapshot)
	return nil
}

func (m *MemoryStack) Pop() ([]byte, bool, error) {
	if len(m.items) == 0 {
		return nil, false, nil
	}
	top := m.items[len(m.items)-1]
	m.items = m.items[:len(m.items)-1]
	return top, true, nil
}

// Trim drops the oldest entries until at most max remain.
func (m *MemoryStack) Trim(max int) error {
	if len(m.items) > max {
		m.items = append([][]byte(nil), m.items[len(m.items)-max:]...)
	}
	return nil
}

func (m *MemoryStack) Clear() error {
	m.items = nil
	return nil
}

func (m *MemoryStack) Len() (int, error) {
	return len(m.items), nil
}

// History keeps bounded undo and redo stacks of full registry snapshots.
// One entry corresponds to exactly one completed lifecycle operation.
type History struct {
	undo  SnapshotStack
	redo  SnapshotStack
	depth int
}

// NewHistory creates a history over the given stacks. A depth below one uses
// DefaultUndoDepth.
func NewHistory(undo, redo SnapshotStack, depth int) *History {
	if depth < 1 {
		depth = DefaultUndoDepth
	}
	return &History{undo: undo, redo: redo, depth: depth}
}

// record pushes the state preceding a mutation and invalidates redo.
func (h *History) record(before []byte) error {
	if err := h.undo.Push(before); err != nil {
		return fmt.Errorf("failed to push undo snapshot: %w", err)
	}
	if err := h.undo.Trim(h.depth); err != nil {
		return fmt.Errorf("failed to trim undo stack: %w", err)
	}
	if err := h.redo.Clear(); err != nil {
		return fmt.Errorf("failed to clear redo stack: %w", err)
	}
	return nil
}

// step pops from one stack after saving current onto the other.
func (h *History) step(from, to SnapshotStack, current []byte) ([]byte, bool, error) {
	snapshot, ok, err := from.Pop()
	if err != nil || !ok {
		return nil, false, err
	}
	if err := to.Push(current); err != nil {
		return nil, false, fmt.Errorf("failed to push history snapshot: %w", err)
	}
	if err := to.Trim(h.depth); err != nil {
		return nil, false, fmt.Errorf("failed to trim history stack: %w", err)
	}
	return snapshot, true, nil
}

// Sizes reports how many undo and redo steps are available.
func (h *History) Sizes() (undo, redo int, err error) {
	if undo, err = h.undo.Len(); err != nil {
		return 0, 0, err
	}
	if redo, err = h.redo.Len(); err != nil {
		return 0, 0, err
	}
	return undo, redo, nil
}

func encodeSnapshot(records []models.Record) ([]byte, error) {
	return json.Marshal(records)
}

func decodeSnapshot(data []byte) ([]models.Record, error) {
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history snapshot: %w", err)
	}
	return records, nil
}
