package model

import "time"

// Building is the top level of the physical-location hierarchy.  A
// building contains floors, which in turn contain areas.  The whole
// tree is served to clients in one bulk payload so that the cascade
// pickers never need more than a single request.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the building.
//  Floors    – ordered floor list, embedded in the building payload.
//  CreatedAt – timestamp when the building was created.
//  UpdatedAt – timestamp of last update.
type Building struct {
	ID        uint64    // buildings.id
	Name      string    // buildings.name
	Floors    []Floor   // embedded floors, ordered by sort position
	CreatedAt time.Time // buildings.created_at
	UpdatedAt time.Time // buildings.updated_at
}

// Floor is a storey inside a building.  Floors are ordered within
// their building and carry their areas embedded, mirroring the bulk
// tree payload.
//
// Fields:
//  ID         – primary key identifier.
//  BuildingID – containing building.
//  Name       – display name (e.g. "Tầng 1").
//  Areas      – ordered area list, embedded.
type Floor struct {
	ID         uint64 // floors.id
	BuildingID uint64 // floors.building_id
	Name       string // floors.name
	Areas      []Area // embedded areas, ordered by sort position
}

// Area is the leaf of the location cascade before niches.  Selecting
// an area yields the flat niche list rendered as the floor-plan grid.
//
// Fields:
//  ID      – primary key identifier.
//  FloorID – containing floor.
//  Name    – display name (e.g. "Khu A").
type Area struct {
	ID      uint64 // areas.id
	FloorID uint64 // areas.floor_id
	Name    string // areas.name
}
