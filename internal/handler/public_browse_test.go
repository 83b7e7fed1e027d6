package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/repository"
)

func newTripleContext(t *testing.T, target string, buildingID, floorID, areaID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("buildingId", "floorId", "areaId")
	c.SetParamValues(buildingID, floorID, areaID)
	return c, rec
}

func TestGetNichesBrokenPathIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT a.id").
		WithArgs(7, 3, 1).
		WillReturnError(sql.ErrNoRows)

	h := &PublicHandler{
		BuildingRepo: repository.NewBuildingRepo(db),
		NicheRepo:    repository.NewNicheRepo(db),
	}
	c, rec := newTripleContext(t, "/api/Buildings/1/floors/3/areas/7", "1", "3", "7")
	if err := h.GetNiches(c); err != nil {
		t.Fatalf("GetNiches: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetLayoutReturnsGroupedGrid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT a.id").
		WithArgs(7, 3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "area_id", "name", "status", "created_at", "updated_at"})
	for i := 1; i <= 3; i++ {
		status := "Available"
		if i == 2 {
			status = "Booked"
		}
		rows.AddRow(uint64(i), uint64(7), strconv.Itoa(i), status, now, now)
	}
	mock.ExpectQuery("SELECT n.id, n.area_id").
		WithArgs(7, 3, 1).
		WillReturnRows(rows)

	h := &PublicHandler{
		BuildingRepo: repository.NewBuildingRepo(db),
		NicheRepo:    repository.NewNicheRepo(db),
	}
	c, rec := newTripleContext(t, "/api/Buildings/1/floors/3/areas/7/layout?width=400", "1", "3", "7")
	if err := h.GetLayout(c); err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var layout struct {
		Tier   string `json:"tier"`
		PerRow int    `json:"perRow"`
		Groups []struct {
			Rows [][]struct {
				Name       string `json:"name"`
				Selectable bool   `json:"selectable"`
			} `json:"rows"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if layout.Tier != "small" || layout.PerRow != 5 {
		t.Fatalf("tier/perRow = %s/%d, want small/5", layout.Tier, layout.PerRow)
	}
	if len(layout.Groups) != 1 || len(layout.Groups[0].Rows) != 1 {
		t.Fatalf("unexpected grouping: %+v", layout.Groups)
	}
	row := layout.Groups[0].Rows[0]
	// small tier mirrors each row
	if row[0].Name != "3" || row[2].Name != "1" {
		t.Fatalf("mirrored row order wrong: %+v", row)
	}
	for _, cell := range row {
		if cell.Name == "2" && cell.Selectable {
			t.Fatal("booked niche must not be selectable")
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
