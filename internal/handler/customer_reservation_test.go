package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/repository"
	"github.com/anvule/columbarium-reservation/internal/validate"
)

func newCustomerHandler(t *testing.T) (*CustomerHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	h := NewCustomerHandler(
		repository.NewBuildingRepo(db),
		repository.NewNicheRepo(db),
		repository.NewReservationRepo(db),
		repository.NewUserRepo(db),
	)
	return h, mock, func() { db.Close() }
}

func newAuthedJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(9))
	return c, rec
}

func TestUpdateReservationRejectsPastDate(t *testing.T) {
	h, mock, closeDB := newCustomerHandler(t)
	defer closeDB()

	body := `{"confirmationDate":"2020-01-01","signAddress":"` + validate.SignAddresses[0] + `"}`
	c, rec := newAuthedJSONContext(t, http.MethodPut, "/api/NicheReservations/4", body)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.UpdateReservation(c); err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	msgs := resp.Errors["confirmationDate"]
	if len(msgs) == 0 || !strings.Contains(msgs[0], "past") {
		t.Fatalf("confirmationDate errors = %v, want past-date rejection", msgs)
	}
	// validation must reject before any transaction is opened
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReservationQuotaExceeded(t *testing.T) {
	h, mock, closeDB := newCustomerHandler(t)
	defer closeDB()

	now := time.Now()
	mock.ExpectQuery("SELECT id,email,password_hash").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "full_name", "phone", "role", "is_active", "created_at", "updated_at",
		}).AddRow(uint64(9), "a@example.com", "x", "Nguyễn Văn A", "0912345678", "CUSTOMER", true, now, now))

	mock.ExpectBegin()
	// nothing due: the sweep finds no lapsed holds
	mock.ExpectQuery("SELECT niche_id FROM niche_reservations").
		WithArgs("Pending").
		WillReturnRows(sqlmock.NewRows([]string{"niche_id"}))
	mock.ExpectQuery("SELECT id, area_id, name, status").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "area_id", "name", "status", "created_at", "updated_at"}).
			AddRow(uint64(5), uint64(7), "5", "Available", now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("0912345678", "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	body := `{"nicheId":5,"name":"ignored","phoneNumber":"0999999999",` +
		`"confirmationDate":"` + now.Format("2006-01-02") + `",` +
		`"signAddress":"` + validate.SignAddresses[0] + `"}`
	c, rec := newAuthedJSONContext(t, http.MethodPost, "/api/NicheReservations", body)

	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != validate.QuotaMessage {
		t.Fatalf("error = %q, want the verbatim quota message", resp.Error)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
