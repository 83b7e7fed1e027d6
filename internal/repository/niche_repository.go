package repository

import (
	"context"
	"database/sql"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// NicheRepo provides access to the niches table.  Niche status is
// authoritative here: clients never mutate it optimistically, they
// refetch after every action, so reads must always reflect committed
// state.  Status strings from legacy rows may carry inconsistent
// casing and are normalized through model.ParseNicheStatus on scan.
type NicheRepo struct {
	db *sql.DB
}

// NewNicheRepo returns a new NicheRepo bound to the given database.
func NewNicheRepo(db *sql.DB) *NicheRepo { return &NicheRepo{db: db} }

// ListByTriple returns all niches of an area, verifying the full
// (building, floor, area) path in the same query.  An empty result
// with a valid path is a legitimate empty area; callers that need to
// distinguish a broken path should call BuildingRepo.VerifyTriple
// first.  Rows are returned in insertion order; display ordering is
// the grid package's job.
func (r *NicheRepo) ListByTriple(ctx context.Context, buildingID, floorID, areaID uint64) ([]model.Niche, error) {
	const q = `SELECT n.id, n.area_id, n.name, n.status, n.created_at, n.updated_at
	           FROM niches n
	           JOIN areas a ON a.id = n.area_id
	           JOIN floors f ON f.id = a.floor_id
	           WHERE n.area_id = ? AND a.floor_id = ? AND f.building_id = ?
	           ORDER BY n.id`
	rows, err := r.db.QueryContext(ctx, q, areaID, floorID, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	niches := make([]model.Niche, 0)
	for rows.Next() {
		var n model.Niche
		var raw string
		if err := rows.Scan(&n.ID, &n.AreaID, &n.Name, &raw, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.Status = model.ParseNicheStatus(raw)
		niches = append(niches, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return niches, nil
}

// ReservedByCustomer returns the set of niche IDs the given customer
// currently holds (Pending or Approved reservations).  The grid uses
// this to highlight the caller's own niches regardless of status.
func (r *NicheRepo) ReservedByCustomer(ctx context.Context, customerID uint64) (map[uint64]bool, error) {
	const q = `SELECT niche_id FROM niche_reservations
	           WHERE customer_id = ? AND status IN (?, ?)`
	rows, err := r.db.QueryContext(ctx, q, customerID, model.ReservationPending, model.ReservationApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateTx loads a niche with a row lock inside the provided
// transaction.  The lock is what serializes two customers racing for
// the same niche: the second transaction blocks here and then sees the
// first one's status flip.  Returns ErrNicheNotFound when the ID does
// not exist.
func (r *NicheRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, nicheID uint64) (model.Niche, error) {
	const q = `SELECT id, area_id, name, status, created_at, updated_at
	           FROM niches WHERE id = ? FOR UPDATE`
	var n model.Niche
	var raw string
	err := tx.QueryRowContext(ctx, q, nicheID).Scan(&n.ID, &n.AreaID, &n.Name, &raw, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Niche{}, ErrNicheNotFound
	}
	if err != nil {
		return model.Niche{}, err
	}
	n.Status = model.ParseNicheStatus(raw)
	return n, nil
}

// UpdateStatusTx sets a niche's status within the provided transaction.
func (r *NicheRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, nicheID uint64, status model.NicheStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE niches SET status = ? WHERE id = ?`, string(status), nicheID)
	return err
}

// BulkUpdateStatusTx sets the status of several niches in one
// statement.  Passing an empty slice has no effect and returns nil.
func (r *NicheRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, nicheIDs []uint64, status model.NicheStatus) error {
	if len(nicheIDs) == 0 {
		return nil
	}
	query := `UPDATE niches SET status = ? WHERE id IN (`
	args := make([]interface{}, 0, len(nicheIDs)+1)
	args = append(args, string(status))
	for i, id := range nicheIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
