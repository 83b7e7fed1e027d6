// Package repository is the data access layer over MySQL.  Sentinel
// errors defined here let handlers distinguish failure scenarios
// without inspecting SQL errors; the not-found variants map to HTTP
// 404.
package repository

import "errors"

// ErrAreaNotFound is returned when a (building, floor, area) path does
// not resolve to an existing area.
var ErrAreaNotFound = errors.New("area not found")

// ErrNicheNotFound is returned when a niche ID does not exist.
var ErrNicheNotFound = errors.New("niche not found")

// ErrReservationNotFound is returned when a reservation ID does not
// exist.
var ErrReservationNotFound = errors.New("reservation not found")
