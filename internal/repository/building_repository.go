package repository

import (
	"context"
	"database/sql"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// BuildingRepo loads the building → floor → area location tree.  The
// tree is served in one bulk payload so the cascade pickers on both
// frontends never need a follow-up request.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo returns a new BuildingRepo bound to the given database.
func NewBuildingRepo(db *sql.DB) *BuildingRepo { return &BuildingRepo{db: db} }

// LoadTree fetches all buildings with their floors and areas embedded,
// ordered by sort position then ID at every level.  Three queries are
// issued and the rows are assembled in memory; the tree is small (a
// handful of buildings) so no paging is needed.
func (r *BuildingRepo) LoadTree(ctx context.Context) ([]model.Building, error) {
	const bq = `SELECT id, name, created_at, updated_at FROM buildings ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, bq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	buildings := make([]model.Building, 0)
	bIndex := make(map[uint64]int)
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Floors = []model.Floor{}
		bIndex[b.ID] = len(buildings)
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const fq = `SELECT id, building_id, name FROM floors ORDER BY building_id, sort_order, id`
	frows, err := r.db.QueryContext(ctx, fq)
	if err != nil {
		return nil, err
	}
	defer frows.Close()
	// floor ID -> (building index, floor index) for area attachment
	type floorPos struct{ b, f int }
	fIndex := make(map[uint64]floorPos)
	for frows.Next() {
		var f model.Floor
		if err := frows.Scan(&f.ID, &f.BuildingID, &f.Name); err != nil {
			return nil, err
		}
		bi, ok := bIndex[f.BuildingID]
		if !ok {
			continue // orphaned row; skip rather than fail the whole tree
		}
		f.Areas = []model.Area{}
		fIndex[f.ID] = floorPos{b: bi, f: len(buildings[bi].Floors)}
		buildings[bi].Floors = append(buildings[bi].Floors, f)
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}

	const aq = `SELECT id, floor_id, name FROM areas ORDER BY floor_id, sort_order, id`
	arows, err := r.db.QueryContext(ctx, aq)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.Area
		if err := arows.Scan(&a.ID, &a.FloorID, &a.Name); err != nil {
			return nil, err
		}
		pos, ok := fIndex[a.FloorID]
		if !ok {
			continue
		}
		fl := &buildings[pos.b].Floors[pos.f]
		fl.Areas = append(fl.Areas, a)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return buildings, nil
}

// VerifyTriple checks that the (building, floor, area) path resolves
// to an existing area whose floor belongs to the building.  It returns
// ErrAreaNotFound when the chain is broken at any level.
func (r *BuildingRepo) VerifyTriple(ctx context.Context, buildingID, floorID, areaID uint64) error {
	const q = `SELECT a.id
	           FROM areas a
	           JOIN floors f ON f.id = a.floor_id
	           WHERE a.id = ? AND a.floor_id = ? AND f.building_id = ?`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, areaID, floorID, buildingID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrAreaNotFound
	}
	return err
}
