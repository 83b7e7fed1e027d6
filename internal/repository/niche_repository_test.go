package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/anvule/columbarium-reservation/internal/model"
)

func TestListByTripleNormalizesStatusCasing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "area_id", "name", "status", "created_at", "updated_at"}).
		AddRow(1, 7, "1", "Available", now, now).
		AddRow(2, 7, "2", "booked", now, now).
		AddRow(3, 7, "3", "UNAVAILABLE", now, now).
		AddRow(4, 7, "4", "something-new", now, now)
	mock.ExpectQuery("SELECT n\\.id, n\\.area_id, n\\.name, n\\.status").
		WithArgs(uint64(7), uint64(3), uint64(1)).
		WillReturnRows(rows)

	repo := NewNicheRepo(db)
	niches, err := repo.ListByTriple(context.Background(), 1, 3, 7)
	if err != nil {
		t.Fatalf("ListByTriple: %v", err)
	}
	if len(niches) != 4 {
		t.Fatalf("got %d niches, want 4", len(niches))
	}
	want := []model.NicheStatus{model.StatusAvailable, model.StatusBooked, model.StatusUnavailable, model.StatusUnknown}
	for i, w := range want {
		if niches[i].Status != w {
			t.Errorf("niche %d status = %s, want %s", i, niches[i].Status, w)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetForUpdateTxNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM niches WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "area_id", "name", "status", "created_at", "updated_at"}))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewNicheRepo(db)
	if _, err := repo.GetForUpdateTx(context.Background(), tx, 42); err != ErrNicheNotFound {
		t.Fatalf("err = %v, want ErrNicheNotFound", err)
	}
}

func TestBulkUpdateStatusTxEmptyNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewNicheRepo(db)
	if err := repo.BulkUpdateStatusTx(context.Background(), tx, nil, model.StatusAvailable); err != nil {
		t.Fatalf("empty bulk update errored: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements issued: %v", err)
	}
}

func TestBulkUpdateStatusTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE niches SET status = \\? WHERE id IN \\(\\?,\\?\\)").
		WithArgs("Available", uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewNicheRepo(db)
	if err := repo.BulkUpdateStatusTx(context.Background(), tx, []uint64{5, 9}, model.StatusAvailable); err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
