package grid

import (
	"strconv"
	"testing"

	"github.com/anvule/columbarium-reservation/internal/model"
)

func cellsFromLabels(labels ...string) []Cell {
	out := make([]Cell, 0, len(labels))
	for i, l := range labels {
		out = append(out, Cell{ID: uint64(i + 1), Name: l, Status: model.StatusAvailable, Selectable: true})
	}
	return out
}

func labelsOf(cells []Cell) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, c.Name)
	}
	return out
}

func TestSortCellsNumericNotLexicographic(t *testing.T) {
	cells := cellsFromLabels("2", "10", "1")
	SortCells(cells)
	want := []string{"1", "2", "10"}
	for i, w := range want {
		if cells[i].Name != w {
			t.Fatalf("sort order = %v, want %v", labelsOf(cells), want)
		}
	}
}

func TestSortCellsNonNumericFallback(t *testing.T) {
	cells := cellsFromLabels("B", "3", "A", "12", "1")
	SortCells(cells)
	want := []string{"1", "3", "12", "A", "B"}
	got := labelsOf(cells)
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sort order = %v, want %v", got, want)
		}
	}
}

func TestSortCellsNumericPrefix(t *testing.T) {
	cells := cellsFromLabels("12B", "2A", "100")
	SortCells(cells)
	want := []string{"2A", "12B", "100"}
	got := labelsOf(cells)
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sort order = %v, want %v", got, want)
		}
	}
}

func TestTierForWidth(t *testing.T) {
	cases := []struct {
		px   int
		want Tier
	}{
		{320, TierSmall},
		{600, TierSmall},
		{601, TierMedium},
		{1250, TierMedium},
		{1251, TierLarge},
		{1920, TierLarge},
	}
	for _, c := range cases {
		if got := TierForWidth(c.px); got != c.want {
			t.Errorf("TierForWidth(%d) = %s, want %s", c.px, got, c.want)
		}
	}
}

func TestBuildLargeTierSingleRowGroups(t *testing.T) {
	// 45 niches at 20/row -> rows of 20, 20, 5; one row per group,
	// groups reversed so the partial (highest) row comes first.
	labels := make([]string, 0, 45)
	for i := 1; i <= 45; i++ {
		labels = append(labels, itoa(i))
	}
	l := BuildTier(cellsFromLabels(labels...), TierLarge)
	if len(l.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(l.Groups))
	}
	if n := len(l.Groups[0].Rows[0]); n != 5 {
		t.Fatalf("first rendered row has %d cells, want 5 (highest, partial)", n)
	}
	if got := l.Groups[0].Rows[0][0].Name; got != "41" {
		t.Fatalf("first cell of top band = %q, want \"41\"", got)
	}
	// lowest band renders last and starts at "1"
	last := l.Groups[len(l.Groups)-1]
	if got := last.Rows[0][0].Name; got != "1" {
		t.Fatalf("first cell of bottom band = %q, want \"1\"", got)
	}
	if last.Index != 0 {
		t.Fatalf("bottom band index = %d, want 0", last.Index)
	}
}

func TestBuildSmallTierReversesRows(t *testing.T) {
	labels := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		labels = append(labels, itoa(i))
	}
	l := BuildTier(cellsFromLabels(labels...), TierSmall)
	// 10 niches at 5/row -> 2 rows, both inside one 4-row group
	if len(l.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(l.Groups))
	}
	row := l.Groups[0].Rows[0]
	if row[0].Name != "5" || row[4].Name != "1" {
		t.Fatalf("small-tier row not mirrored: %v", labelsOf(row))
	}
}

func TestBuildMediumTierGrouping(t *testing.T) {
	labels := make([]string, 0, 40)
	for i := 1; i <= 40; i++ {
		labels = append(labels, itoa(i))
	}
	l := BuildTier(cellsFromLabels(labels...), TierMedium)
	// 40 niches at 10/row -> 4 rows -> 2 groups of 2 rows
	if len(l.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(l.Groups))
	}
	for _, g := range l.Groups {
		if len(g.Rows) != 2 {
			t.Fatalf("group %d has %d rows, want 2", g.Index, len(g.Rows))
		}
	}
	// top rendered group holds the higher numbers
	if got := l.Groups[0].Rows[0][0].Name; got != "21" {
		t.Fatalf("top group starts at %q, want \"21\"", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(nil, 1920)
	if len(l.Groups) != 0 {
		t.Fatalf("empty input produced %d groups", len(l.Groups))
	}
	if l.Tier != TierLarge || l.PerRow != 20 {
		t.Fatalf("unexpected tier %s / perRow %d", l.Tier, l.PerRow)
	}
}

func TestNewCellSelectability(t *testing.T) {
	cases := []struct {
		status     model.NicheStatus
		selectable bool
		tooltip    string
	}{
		{model.StatusAvailable, true, ""},
		{model.StatusBooked, false, "already reserved"},
		{model.StatusUnavailable, false, "already in use"},
		{model.StatusUnknown, false, "status unknown"},
	}
	for _, c := range cases {
		cell := NewCell(model.Niche{ID: 1, Name: "5", Status: c.status}, false)
		if cell.Selectable != c.selectable {
			t.Errorf("status %s: selectable = %v, want %v", c.status, cell.Selectable, c.selectable)
		}
		if cell.Tooltip != c.tooltip {
			t.Errorf("status %s: tooltip = %q, want %q", c.status, cell.Tooltip, c.tooltip)
		}
	}
}

func TestNewCellReservedByUserHighlight(t *testing.T) {
	cell := NewCell(model.Niche{ID: 9, Name: "9", Status: model.StatusBooked}, true)
	if !cell.ReservedByUser {
		t.Fatal("ReservedByUser flag lost")
	}
	if cell.Selectable {
		t.Fatal("own booked niche must stay inert")
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
