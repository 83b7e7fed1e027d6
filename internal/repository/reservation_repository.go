package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for niche reservations.  A
// reservation is a time-boxed hold: it is created Pending with its
// confirmation date doubling as the expiry instant, and transitions to
// Approved (staff confirm), Canceled (customer or staff) or Expired
// (sweep).  Rows are never deleted.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for handlers that open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the niche_reservations table.  It is used
// by the repository when constructing or scanning rows; display code
// uses ReservationDetail instead.
type ReservationRecord struct {
	ID               uint64
	Code             string
	NicheID          uint64
	CustomerID       *uint64
	Name             string
	PhoneNumber      string
	SignAddress      string
	Note             *string
	IsCustomer       bool
	Status           string
	ConfirmationDate time.Time
	CreatedDate      time.Time
	UpdatedAt        time.Time
}

// CreateTx inserts a new reservation within an existing transaction
// and populates the generated ID and timestamps on the record.  The
// caller must commit or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	const q = `INSERT INTO niche_reservations
	           (code, niche_id, customer_id, name, phone_number, sign_address, note, is_customer, status, confirmation_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		rec.Code, rec.NicheID, rec.CustomerID, rec.Name, rec.PhoneNumber,
		rec.SignAddress, rec.Note, rec.IsCustomer, rec.Status,
		rec.ConfirmationDate.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	const sel = `SELECT created_date, updated_at FROM niche_reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, rec.ID).Scan(&rec.CreatedDate, &rec.UpdatedAt)
}

// CountActiveByPhoneTx counts Pending reservations held by a phone
// number inside the provided transaction.  The per-phone quota check
// runs against this count after the expiry sweep, so lapsed holds do
// not consume quota.
func (r *ReservationRepo) CountActiveByPhoneTx(ctx context.Context, tx *sql.Tx, phone string) (int, error) {
	const q = `SELECT COUNT(*) FROM niche_reservations WHERE phone_number = ? AND status = ?`
	var n int
	err := tx.QueryRowContext(ctx, q, phone, model.ReservationPending).Scan(&n)
	return n, err
}

// ExpireDueTx transitions all Pending reservations whose confirmation
// date has passed to Expired and returns the affected niche IDs so the
// caller can return those niches to Available in the same transaction.
// When nothing is due it returns an empty slice and nil error.
func (r *ReservationRepo) ExpireDueTx(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT niche_id FROM niche_reservations WHERE status = ? AND confirmation_date <= UTC_TIMESTAMP()`,
		model.ReservationPending,
	)
	if err != nil {
		return nil, err
	}
	var nicheIDs []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		nicheIDs = append(nicheIDs, id)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(nicheIDs) == 0 {
		return []uint64{}, nil
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE niche_reservations SET status = ? WHERE status = ? AND confirmation_date <= UTC_TIMESTAMP()`,
		model.ReservationExpired, model.ReservationPending,
	)
	if err != nil {
		return nil, err
	}
	return nicheIDs, nil
}

// GetForUpdateTx loads a reservation with a row lock.  Returns
// ErrReservationNotFound when the ID does not exist.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (ReservationRecord, error) {
	const q = `SELECT id, code, niche_id, customer_id, name, phone_number, sign_address, note,
	                  is_customer, status, confirmation_date, created_date, updated_at
	           FROM niche_reservations WHERE id = ? FOR UPDATE`
	return r.scanRecord(tx.QueryRowContext(ctx, q, id))
}

// UpdateMutableTx writes the client-mutable subset of fields:
// confirmation date, note and sign address.  Identifiers and status
// are never client-writable; status transitions go through
// UpdateStatusTx.
func (r *ReservationRepo) UpdateMutableTx(ctx context.Context, tx *sql.Tx, id uint64, confirmationDate time.Time, note *string, signAddress string) error {
	const q = `UPDATE niche_reservations SET confirmation_date = ?, note = ?, sign_address = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		confirmationDate.UTC().Format("2006-01-02 15:04:05"), note, signAddress, id)
	return err
}

// UpdateStatusTx sets the lifecycle status of a reservation.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE niche_reservations SET status = ? WHERE id = ?`, status, id)
	return err
}

// ConfirmTx marks a reservation Approved and stamps the confirmation
// date with the current server time.  Confirmation is a staff action;
// the customer-selected date only bounded the hold.
func (r *ReservationRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE niche_reservations SET status = ?, confirmation_date = UTC_TIMESTAMP() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.ReservationApproved, id)
	return err
}

// ReservationDetail is a reservation joined with its niche and
// location names for display in the lifecycle lists.  JSON field names
// match the envelope both frontends already consume.
type ReservationDetail struct {
	ReservationID    uint64  `json:"reservationId"`
	Code             string  `json:"code"`
	NicheID          uint64  `json:"nicheId"`
	NicheName        string  `json:"nicheName"`
	BuildingName     string  `json:"buildingName"`
	FloorName        string  `json:"floorName"`
	AreaName         string  `json:"areaName"`
	Name             string  `json:"name"`
	PhoneNumber      string  `json:"phoneNumber"`
	SignAddress      string  `json:"signAddress"`
	Note             *string `json:"note,omitempty"`
	Status           string  `json:"status"`
	StatusColor      string  `json:"statusColor"`
	Editable         bool    `json:"editable"`
	CreatedDate      string  `json:"createdDate"`
	ConfirmationDate string  `json:"confirmationDate"`
}

const detailSelect = `SELECT r.id, r.code, r.niche_id, r.name, r.phone_number, r.sign_address, r.note,
	       r.status, r.confirmation_date, r.created_date,
	       n.name, a.name, f.name, b.name
	FROM niche_reservations r
	JOIN niches n ON n.id = r.niche_id
	JOIN areas a ON a.id = n.area_id
	JOIN floors f ON f.id = a.floor_id
	JOIN buildings b ON b.id = f.building_id`

// GetDetail returns one reservation with display fields.  Returns
// ErrReservationNotFound when the ID does not exist.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailSelect+` WHERE r.id = ?`, id)
	det, err := scanDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &det, nil
}

// OwnerOfTx returns the customer ID (nil for walk-ins) and status of a
// reservation inside a transaction, for ownership and editability
// checks.  Returns ErrReservationNotFound when the ID does not exist.
func (r *ReservationRepo) OwnerOfTx(ctx context.Context, tx *sql.Tx, id uint64) (*uint64, string, error) {
	var customerID sql.NullInt64
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT customer_id, status FROM niche_reservations WHERE id = ?`, id,
	).Scan(&customerID, &status)
	if err == sql.ErrNoRows {
		return nil, "", ErrReservationNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if !customerID.Valid {
		return nil, status, nil
	}
	cid := uint64(customerID.Int64)
	return &cid, status, nil
}

// ListByCustomer returns all reservations created by the given user,
// newest first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]ReservationDetail, error) {
	return r.list(ctx, detailSelect+` WHERE r.customer_id = ? ORDER BY r.created_date DESC`, customerID)
}

// ListByPhone returns all reservations tied to a phone number, newest
// first.  Staff use this for counter lookups.
func (r *ReservationRepo) ListByPhone(ctx context.Context, phone string) ([]ReservationDetail, error) {
	return r.list(ctx, detailSelect+` WHERE r.phone_number = ? ORDER BY r.created_date DESC`, phone)
}

// ListAll returns every reservation, newest first.  Sorting, filtering
// and paging over the set are client-side concerns.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	return r.list(ctx, detailSelect+` ORDER BY r.created_date DESC`)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetail(s rowScanner) (ReservationDetail, error) {
	var det ReservationDetail
	var note sql.NullString
	var confirmation, created time.Time
	err := s.Scan(
		&det.ReservationID, &det.Code, &det.NicheID, &det.Name, &det.PhoneNumber,
		&det.SignAddress, &note, &det.Status, &confirmation, &created,
		&det.NicheName, &det.AreaName, &det.FloorName, &det.BuildingName,
	)
	if err != nil {
		return ReservationDetail{}, err
	}
	if note.Valid {
		n := note.String
		det.Note = &n
	}
	det.StatusColor = model.BadgeColor(det.Status)
	det.Editable = model.ReservationEditable(det.Status)
	det.ConfirmationDate = confirmation.UTC().Format(time.RFC3339)
	det.CreatedDate = created.UTC().Format(time.RFC3339)
	return det, nil
}

func (r *ReservationRepo) scanRecord(row *sql.Row) (ReservationRecord, error) {
	var rec ReservationRecord
	var customerID sql.NullInt64
	var note sql.NullString
	err := row.Scan(
		&rec.ID, &rec.Code, &rec.NicheID, &customerID, &rec.Name, &rec.PhoneNumber,
		&rec.SignAddress, &note, &rec.IsCustomer, &rec.Status,
		&rec.ConfirmationDate, &rec.CreatedDate, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return ReservationRecord{}, ErrReservationNotFound
	}
	if err != nil {
		return ReservationRecord{}, err
	}
	if customerID.Valid {
		cid := uint64(customerID.Int64)
		rec.CustomerID = &cid
	}
	if note.Valid {
		n := note.String
		rec.Note = &n
	}
	return rec, nil
}
