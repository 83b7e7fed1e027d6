package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/anvule/columbarium-reservation/internal/model"
)

func TestExpireDueTxReturnsNicheIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT niche_id FROM niche_reservations WHERE status = \\?").
		WithArgs(model.ReservationPending).
		WillReturnRows(sqlmock.NewRows([]string{"niche_id"}).AddRow(11).AddRow(12))
	mock.ExpectExec("UPDATE niche_reservations SET status = \\?").
		WithArgs(model.ReservationExpired, model.ReservationPending).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewReservationRepo(db)
	ids, err := repo.ExpireDueTx(context.Background(), tx)
	if err != nil {
		t.Fatalf("ExpireDueTx: %v", err)
	}
	if len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Fatalf("ids = %v, want [11 12]", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpireDueTxNothingDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT niche_id FROM niche_reservations WHERE status = \\?").
		WithArgs(model.ReservationPending).
		WillReturnRows(sqlmock.NewRows([]string{"niche_id"}))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewReservationRepo(db)
	ids, err := repo.ExpireDueTx(context.Background(), tx)
	if err != nil {
		t.Fatalf("ExpireDueTx: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want empty", ids)
	}
	// no UPDATE may be issued when nothing is due
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements issued: %v", err)
	}
}

func TestCountActiveByPhoneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM niche_reservations").
		WithArgs("0912345678", model.ReservationPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewReservationRepo(db)
	n, err := repo.CountActiveByPhoneTx(context.Background(), tx, "0912345678")
	if err != nil {
		t.Fatalf("CountActiveByPhoneTx: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestGetDetailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM niche_reservations r").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewReservationRepo(db)
	if _, err := repo.GetDetail(context.Background(), 77); err != ErrReservationNotFound {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
}

func TestListByPhoneDerivesBadgeAndEditability(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{
		"id", "code", "niche_id", "name", "phone_number", "sign_address", "note",
		"status", "confirmation_date", "created_date",
		"niche_name", "area_name", "floor_name", "building_name",
	}
	rows := sqlmock.NewRows(cols).
		AddRow(1, "c-1", 5, "Nguyễn Văn An", "0912345678", "VP1", nil,
			model.ReservationPending, now, now, "5", "Khu A", "Tầng 1", "An Bình").
		AddRow(2, "c-2", 6, "Nguyễn Văn An", "0912345678", "VP1", "ghi chú",
			model.ReservationApproved, now, now, "6", "Khu A", "Tầng 1", "An Bình")
	mock.ExpectQuery("WHERE r\\.phone_number = \\?").
		WithArgs("0912345678").
		WillReturnRows(rows)

	repo := NewReservationRepo(db)
	details, err := repo.ListByPhone(context.Background(), "0912345678")
	if err != nil {
		t.Fatalf("ListByPhone: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("got %d rows, want 2", len(details))
	}
	if !details[0].Editable || details[0].StatusColor != "neutral" {
		t.Fatalf("pending row: editable=%v color=%s", details[0].Editable, details[0].StatusColor)
	}
	if details[1].Editable || details[1].StatusColor != "positive" {
		t.Fatalf("approved row: editable=%v color=%s", details[1].Editable, details[1].StatusColor)
	}
	if details[1].Note == nil || *details[1].Note != "ghi chú" {
		t.Fatalf("note not carried through: %v", details[1].Note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
