// Package grid turns a flat niche list for one (building, floor, area)
// triple into the floor-plan layout both frontends render.  The layout
// is computed here, server-side, so the portal and the staff console
// always agree on ordering, density and selectability.
package grid

import (
	"sort"
	"strconv"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// Tier is a viewport-width density mode.  The tier controls how many
// niches fit in a row and how many rows make up one floor-group of the
// rendered plan.
type Tier string

const (
	TierSmall  Tier = "small"  // phones: 5 per row, 4 rows per group, rows mirrored
	TierMedium Tier = "medium" // tablets: 10 per row, 2 rows per group
	TierLarge  Tier = "large"  // desktops: 20 per row, 1 row per group
)

// Width breakpoints in CSS pixels.  A width at or below SmallMaxWidth
// is small; above MediumMaxWidth is large; anything between is medium.
const (
	SmallMaxWidth  = 600
	MediumMaxWidth = 1250
)

// tierSpec bundles the per-tier layout parameters.  ReverseRows marks
// tiers whose rows are mirrored right-to-left to match the physical
// walking direction on narrow screens.
type tierSpec struct {
	PerRow       int
	RowsPerGroup int
	ReverseRows  bool
}

var specs = map[Tier]tierSpec{
	TierSmall:  {PerRow: 5, RowsPerGroup: 4, ReverseRows: true},
	TierMedium: {PerRow: 10, RowsPerGroup: 2, ReverseRows: false},
	TierLarge:  {PerRow: 20, RowsPerGroup: 1, ReverseRows: false},
}

// TierForWidth maps a viewport width in pixels to its density tier.
func TierForWidth(px int) Tier {
	switch {
	case px <= SmallMaxWidth:
		return TierSmall
	case px <= MediumMaxWidth:
		return TierMedium
	default:
		return TierLarge
	}
}

// Cell is one renderable niche in the plan.  Selectable is derived
// purely from the normalized status; ReservedByUser highlights the
// caller's own holds regardless of status.
type Cell struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	Status         model.NicheStatus `json:"status"`
	Selectable     bool              `json:"selectable"`
	ReservedByUser bool              `json:"reservedByUser"`
	Tooltip        string            `json:"tooltip,omitempty"`
}

// Row is a single run of cells rendered left to right.
type Row []Cell

// FloorGroup is one horizontal band of the plan.  Index counts from
// zero at the physically lowest band; groups are emitted top-down so
// the lowest band renders last, at the bottom, matching the building.
type FloorGroup struct {
	Index int   `json:"index"`
	Rows  []Row `json:"rows"`
}

// Layout is the complete computed plan for one area at one tier.
type Layout struct {
	Tier   Tier         `json:"tier"`
	PerRow int          `json:"perRow"`
	Groups []FloorGroup `json:"groups"`
}

// NewCell derives the render state for a niche.  Tooltips explain why
// a non-selectable cell is inert.
func NewCell(n model.Niche, reservedByUser bool) Cell {
	c := Cell{
		ID:             n.ID,
		Name:           n.Name,
		Status:         n.Status,
		Selectable:     n.Status.Selectable(),
		ReservedByUser: reservedByUser,
	}
	switch n.Status {
	case model.StatusBooked:
		c.Tooltip = "already reserved"
	case model.StatusUnavailable:
		c.Tooltip = "already in use"
	case model.StatusUnknown:
		c.Tooltip = "status unknown"
	}
	return c
}

// numericPrefix parses the leading digits of a label, parseInt-style:
// "12B" yields 12.  ok is false when the label has no leading digit.
func numericPrefix(label string) (int, bool) {
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(label[:i])
	if err != nil {
		// more digits than an int holds; treat as non-numeric
		return 0, false
	}
	return n, true
}

// SortCells orders cells the way the plan expects: ascending by the
// numeric prefix of the name label ("2" before "10"), then any labels
// without a leading digit, lexicographically among themselves.  The
// sort is stable so equal labels keep their fetch order.
func SortCells(cells []Cell) {
	sort.SliceStable(cells, func(i, j int) bool {
		ni, iok := numericPrefix(cells[i].Name)
		nj, jok := numericPrefix(cells[j].Name)
		switch {
		case iok && jok:
			if ni != nj {
				return ni < nj
			}
			return cells[i].Name < cells[j].Name
		case iok:
			return true
		case jok:
			return false
		default:
			return cells[i].Name < cells[j].Name
		}
	})
}

// Build computes the floor-plan layout for the given cells at the tier
// implied by the viewport width.  The input slice is not modified.
func Build(cells []Cell, widthPx int) Layout {
	return BuildTier(cells, TierForWidth(widthPx))
}

// BuildTier is Build with an explicit tier.  Cells are sorted, chunked
// into rows of the tier's width, rows are grouped into floor bands, and
// the band order is reversed so the lowest band lands at the bottom of
// the rendered page.
func BuildTier(cells []Cell, tier Tier) Layout {
	spec, ok := specs[tier]
	if !ok {
		tier = TierLarge
		spec = specs[tier]
	}

	sorted := make([]Cell, len(cells))
	copy(sorted, cells)
	SortCells(sorted)

	// chunk into rows
	rows := make([]Row, 0, (len(sorted)+spec.PerRow-1)/spec.PerRow)
	for start := 0; start < len(sorted); start += spec.PerRow {
		end := start + spec.PerRow
		if end > len(sorted) {
			end = len(sorted)
		}
		row := make(Row, end-start)
		copy(row, sorted[start:end])
		if spec.ReverseRows {
			for l, r := 0, len(row)-1; l < r; l, r = l+1, r-1 {
				row[l], row[r] = row[r], row[l]
			}
		}
		rows = append(rows, row)
	}

	// group rows into floor bands, index 0 = lowest band
	groups := make([]FloorGroup, 0, (len(rows)+spec.RowsPerGroup-1)/spec.RowsPerGroup)
	for start := 0; start < len(rows); start += spec.RowsPerGroup {
		end := start + spec.RowsPerGroup
		if end > len(rows) {
			end = len(rows)
		}
		groups = append(groups, FloorGroup{
			Index: len(groups),
			Rows:  rows[start:end],
		})
	}

	// highest band first so the lowest renders at the bottom
	for l, r := 0, len(groups)-1; l < r; l, r = l+1, r-1 {
		groups[l], groups[r] = groups[r], groups[l]
	}

	return Layout{Tier: tier, PerRow: spec.PerRow, Groups: groups}
}
