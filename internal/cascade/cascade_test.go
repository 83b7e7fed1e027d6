package cascade

import (
	"testing"

	"github.com/anvule/columbarium-reservation/internal/model"
)

func testTree() []model.Building {
	return []model.Building{
		{
			ID: 1, Name: "An Bình",
			Floors: []model.Floor{
				{ID: 11, BuildingID: 1, Name: "Tầng 1", Areas: []model.Area{
					{ID: 111, FloorID: 11, Name: "Khu A"},
					{ID: 112, FloorID: 11, Name: "Khu B"},
				}},
				{ID: 12, BuildingID: 1, Name: "Tầng 2", Areas: []model.Area{
					{ID: 121, FloorID: 12, Name: "Khu A"},
				}},
			},
		},
		{
			ID: 2, Name: "Vĩnh Hằng",
			Floors: []model.Floor{
				{ID: 21, BuildingID: 2, Name: "Tầng 1"}, // no areas
			},
		},
		{ID: 3, Name: "Chưa mở"}, // no floors
	}
}

func TestSelectBuildingAutoSelectsFirstFloorAndArea(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(1); err != nil {
		t.Fatalf("SelectBuilding: %v", err)
	}
	b, f, a, ok := s.Triple()
	if !ok {
		t.Fatal("expected complete triple after auto-select")
	}
	if b != 1 || f != 11 || a != 111 {
		t.Fatalf("triple = (%d,%d,%d), want (1,11,111)", b, f, a)
	}
}

func TestSelectBuildingDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		s := New(testTree())
		if err := s.SelectBuilding(1); err != nil {
			t.Fatalf("SelectBuilding: %v", err)
		}
		if _, f, a, _ := s.Triple(); f != 11 || a != 111 {
			t.Fatalf("run %d: auto-select not deterministic (floor=%d area=%d)", i, f, a)
		}
	}
}

func TestSelectBuildingResetsLowerLevels(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(1); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectArea(112); err != nil {
		t.Fatal(err)
	}
	// picking a different building must clear floor and area; building 3
	// has no floors, so the selection stays partial
	if err := s.SelectBuilding(3); err != nil {
		t.Fatal(err)
	}
	if s.Complete() {
		t.Fatal("selection should be partial after selecting an empty building")
	}
	if s.Floor() != nil || s.Area() != nil {
		t.Fatal("floor/area not reset on building change")
	}
}

func TestEmptyFloorLeavesAreaUnset(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(2); err != nil {
		t.Fatalf("empty children must not error: %v", err)
	}
	if s.Floor() == nil {
		t.Fatal("first floor should auto-select")
	}
	if s.Area() != nil {
		t.Fatal("area must stay unset when the floor has no areas")
	}
	if _, _, _, ok := s.Triple(); ok {
		t.Fatal("partial selection must not yield a triple")
	}
}

func TestConsistencyInvariant(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(1); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectFloor(12); err != nil {
		t.Fatal(err)
	}
	// floor 12's only area auto-selected
	b, f, a, ok := s.Triple()
	if !ok || b != 1 || f != 12 || a != 121 {
		t.Fatalf("triple = (%d,%d,%d,%v), want (1,12,121,true)", b, f, a, ok)
	}
	// an area from a different floor must be rejected
	if err := s.SelectArea(111); err != ErrNotInTree {
		t.Fatalf("cross-floor area select: err = %v, want ErrNotInTree", err)
	}
	// a floor from a different building must be rejected
	if err := s.SelectFloor(21); err != ErrNotInTree {
		t.Fatalf("cross-building floor select: err = %v, want ErrNotInTree", err)
	}
}

func TestSelectUnknownBuilding(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(99); err != ErrNotInTree {
		t.Fatalf("err = %v, want ErrNotInTree", err)
	}
	if s.Building() != nil {
		t.Fatal("failed select must not change state")
	}
}

func TestClear(t *testing.T) {
	s := New(testTree())
	if err := s.SelectBuilding(1); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if s.Building() != nil || s.Floor() != nil || s.Area() != nil {
		t.Fatal("Clear left residual selection")
	}
}
