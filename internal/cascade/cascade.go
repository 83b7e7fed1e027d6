// Package cascade implements the building → floor → area selection
// chain used to narrow down to a niche list.  A Selection is always
// either fully unset or fully consistent: the chosen area belongs to
// the chosen floor, which belongs to the chosen building.  Selecting a
// higher level resets everything below it and, when the new level has
// children, auto-selects the first child all the way down so the user
// lands on a renderable triple with a single click.
package cascade

import (
	"errors"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// ErrNotInTree is returned when a selected ID does not exist under the
// currently selected parent (or, for buildings, in the tree at all).
var ErrNotInTree = errors.New("cascade: id not in tree")

// Selection tracks the active (building, floor, area) triple over a
// location tree fetched once per page load.  The zero value is not
// usable; construct with New.
type Selection struct {
	tree     []model.Building
	building int // index into tree, -1 when unset
	floor    int // index into building's floors, -1 when unset
	area     int // index into floor's areas, -1 when unset
}

// New returns an empty Selection over the given tree.  The tree is
// held by reference and must not be mutated while the Selection is in
// use.
func New(tree []model.Building) *Selection {
	return &Selection{tree: tree, building: -1, floor: -1, area: -1}
}

// Clear resets the selection to fully unset.
func (s *Selection) Clear() {
	s.building, s.floor, s.area = -1, -1, -1
}

// SelectBuilding sets the active building, clears the floor and area,
// and auto-selects the first floor (and, cascading, the first area)
// when children exist.  A building with no floors leaves the lower
// levels unset without error.
func (s *Selection) SelectBuilding(id uint64) error {
	for i := range s.tree {
		if s.tree[i].ID != id {
			continue
		}
		s.building, s.floor, s.area = i, -1, -1
		if len(s.tree[i].Floors) > 0 {
			return s.SelectFloor(s.tree[i].Floors[0].ID)
		}
		return nil
	}
	return ErrNotInTree
}

// SelectFloor sets the active floor within the current building,
// clears the area, and auto-selects the first area when one exists.
// It fails when no building is selected or the floor does not belong
// to it.
func (s *Selection) SelectFloor(id uint64) error {
	if s.building < 0 {
		return ErrNotInTree
	}
	floors := s.tree[s.building].Floors
	for i := range floors {
		if floors[i].ID != id {
			continue
		}
		s.floor, s.area = i, -1
		if len(floors[i].Areas) > 0 {
			return s.SelectArea(floors[i].Areas[0].ID)
		}
		return nil
	}
	return ErrNotInTree
}

// SelectArea finalizes the triple.  It fails when no floor is selected
// or the area does not belong to the current floor.
func (s *Selection) SelectArea(id uint64) error {
	if s.building < 0 || s.floor < 0 {
		return ErrNotInTree
	}
	areas := s.tree[s.building].Floors[s.floor].Areas
	for i := range areas {
		if areas[i].ID == id {
			s.area = i
			return nil
		}
	}
	return ErrNotInTree
}

// Complete reports whether all three levels are selected.
func (s *Selection) Complete() bool {
	return s.building >= 0 && s.floor >= 0 && s.area >= 0
}

// Triple returns the active (building, floor, area) IDs.  ok is false
// unless the selection is complete; a partial selection never leaks a
// half-formed triple to the niche fetch.
func (s *Selection) Triple() (buildingID, floorID, areaID uint64, ok bool) {
	if !s.Complete() {
		return 0, 0, 0, false
	}
	b := s.tree[s.building]
	f := b.Floors[s.floor]
	return b.ID, f.ID, f.Areas[s.area].ID, true
}

// Building returns the selected building, or nil when unset.
func (s *Selection) Building() *model.Building {
	if s.building < 0 {
		return nil
	}
	return &s.tree[s.building]
}

// Floor returns the selected floor, or nil when unset.
func (s *Selection) Floor() *model.Floor {
	if s.building < 0 || s.floor < 0 {
		return nil
	}
	return &s.tree[s.building].Floors[s.floor]
}

// Area returns the selected area, or nil when unset.
func (s *Selection) Area() *model.Area {
	if !s.Complete() {
		return nil
	}
	return &s.tree[s.building].Floors[s.floor].Areas[s.area]
}
