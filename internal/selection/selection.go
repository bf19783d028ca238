// Package selection tracks which table rows are targeted for a bulk
// action. A selection is either an explicit include set, or an exclude
// set over the full row universe ("everything except these"). Resolving
// to concrete ids always goes through the current universe, so ids that
// disappeared on a refresh simply drop out instead of erroring.
package selection

import (
	"github.com/google/uuid"
)

// Mode distinguishes the two selection representations.
type Mode int

const (
	// Include holds the selected ids explicitly.
	Include Mode = iota
	// Exclude holds the deselected ids; everything else in the universe
	// is selected.
	Exclude
)

// Model is a row selection in one of the two modes. The zero value is
// an empty include-mode selection (nothing selected).
type Model struct {
	mode Mode
	ids  map[uuid.UUID]struct{}
}

// New returns an empty include-mode selection.
func New() *Model {
	return &Model{
		mode: Include,
		ids:  make(map[uuid.UUID]struct{}),
	}
}

// Mode returns the active representation.
func (m *Model) Mode() Mode {
	return m.mode
}

// Toggle flips the membership of a single row in whichever set is
// active, without switching modes.
func (m *Model) Toggle(id uuid.UUID) {
	if m.ids == nil {
		m.ids = make(map[uuid.UUID]struct{})
	}
	if _, ok := m.ids[id]; ok {
		delete(m.ids, id)
	} else {
		m.ids[id] = struct{}{}
	}
}

// SelectAll switches to exclude mode with an empty exclude set:
// everything in the universe is selected.
func (m *Model) SelectAll() {
	m.mode = Exclude
	m.ids = make(map[uuid.UUID]struct{})
}

// Clear resets to include mode with an empty include set: nothing
// is selected.
func (m *Model) Clear() {
	m.mode = Include
	m.ids = make(map[uuid.UUID]struct{})
}

// Selected reports whether the row is currently selected.
func (m *Model) Selected(id uuid.UUID) bool {
	_, ok := m.ids[id]
	if m.mode == Exclude {
		return !ok
	}
	return ok
}

// Resolve materializes the selection against the current universe of row
// ids. Include mode intersects with the universe, so stale ids referencing
// rows no longer present are treated as absent.
func (m *Model) Resolve(universe []uuid.UUID) []uuid.UUID {
	resolved := make([]uuid.UUID, 0, len(universe))
	for _, id := range universe {
		if m.Selected(id) {
			resolved = append(resolved, id)
		}
	}
	return resolved
}

// Count returns how many rows of the universe are selected.
func (m *Model) Count(universe []uuid.UUID) int {
	return len(m.Resolve(universe))
}
