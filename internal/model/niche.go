package model

import (
	"strings"
	"time"
)

// NicheStatus is the closed set of availability states a niche can be
// in.  The legacy backends emitted the status as loosely cased strings
// ("Available", "unavailable", "Booked"), so every string coming from
// storage or the wire must pass through ParseNicheStatus.  Anything
// unrecognized maps to StatusUnknown instead of crashing or silently
// defaulting to an available-looking state.
type NicheStatus string

const (
	StatusAvailable   NicheStatus = "Available"   // free to reserve; the only selectable state
	StatusBooked      NicheStatus = "Booked"      // held or reserved by someone
	StatusUnavailable NicheStatus = "Unavailable" // in use (occupied) or withdrawn from sale
	StatusUnknown     NicheStatus = "Unknown"     // unrecognized server value; rendered inert
)

// ParseNicheStatus normalizes a raw status string to one of the four
// NicheStatus variants.  Comparison is case-insensitive.
func ParseNicheStatus(raw string) NicheStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "available", "free":
		return StatusAvailable
	case "booked", "reserved", "held":
		return StatusBooked
	case "unavailable", "inuse", "in_use":
		return StatusUnavailable
	default:
		return StatusUnknown
	}
}

// Selectable reports whether a niche in this status may be picked for
// a new reservation.  Only Available niches are clickable in the grid.
func (s NicheStatus) Selectable() bool { return s == StatusAvailable }

// Niche is an individually bookable ash-storage unit.  Niches belong
// to an area and are identified to visitors by a numeric-sortable name
// label ("1", "2", … "120"); the grid sorts by the numeric value of
// that label, not by ID and not lexicographically.
//
// Fields:
//  ID        – primary key identifier.
//  AreaID    – containing area.
//  Name      – display label, normally a number rendered as a string.
//  Status    – availability status, authoritative from storage.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Niche struct {
	ID        uint64      // niches.id
	AreaID    uint64      // niches.area_id
	Name      string      // niches.name
	Status    NicheStatus // niches.status (normalized)
	CreatedAt time.Time   // niches.created_at
	UpdatedAt time.Time   // niches.updated_at
}
