package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/grid"
	"github.com/anvule/columbarium-reservation/internal/model"
	"github.com/anvule/columbarium-reservation/internal/repository"
	"github.com/anvule/columbarium-reservation/internal/validate"
)

// CustomerHandler groups the repositories used by portal customers to
// browse their niches and manage reservations.  JWT authentication and
// role checks run in middleware before any method here; methods still
// return 401 when the user ID cannot be extracted from the context.
// Mutating operations run inside a transaction, and every one begins
// with the expiry sweep so stale holds never block a new booking or
// consume quota.
type CustomerHandler struct {
	BuildingRepo    *repository.BuildingRepo
	NicheRepo       *repository.NicheRepo
	ReservationRepo *repository.ReservationRepo
	UserRepo        *repository.UserRepo
}

// NewCustomerHandler constructs a CustomerHandler.  All dependencies
// must be non-nil.
func NewCustomerHandler(buildingRepo *repository.BuildingRepo, nicheRepo *repository.NicheRepo, reservationRepo *repository.ReservationRepo, userRepo *repository.UserRepo) *CustomerHandler {
	if buildingRepo == nil || nicheRepo == nil || reservationRepo == nil || userRepo == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{
		BuildingRepo:    buildingRepo,
		NicheRepo:       nicheRepo,
		ReservationRepo: reservationRepo,
		UserRepo:        userRepo,
	}
}

// createReservationReq matches the payload both frontends post.  The
// confirmation date accepts either a full RFC3339 timestamp or a bare
// date; either way the stored expiry is the end of the selected day.
type createReservationReq struct {
	NicheID          uint64 `json:"nicheId"`
	Name             string `json:"name"`
	ConfirmationDate string `json:"confirmationDate"`
	SignAddress      string `json:"signAddress"`
	PhoneNumber      string `json:"phoneNumber"`
	Note             string `json:"note"`
	IsCustomer       bool   `json:"isCustomer"`
}

func parseConfirmationDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// GetMyNiches handles the customer-scoped niche listing:
// GET /v1/customer/buildings/:buildingId/floors/:floorId/areas/:areaId.
// It is the public listing plus the reservedByUser highlight for the
// caller's own active holds.
func (h *CustomerHandler) GetMyNiches(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	buildingID, floorID, areaID, err := tripleParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location path"})
	}
	ctx := c.Request().Context()
	if err := h.BuildingRepo.VerifyTriple(ctx, buildingID, floorID, areaID); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	niches, err := h.NicheRepo.ListByTriple(ctx, buildingID, floorID, areaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	mine, err := h.NicheRepo.ReservedByCustomer(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicNiche, 0, len(niches))
	for _, n := range niches {
		out = append(out, publicNiche{ID: n.ID, Name: n.Name, Status: n.Status, ReservedByUser: mine[n.ID]})
	}
	return c.JSON(http.StatusOK, wrapValues(out))
}

// GetMyLayout is GetLayout with the caller's reservedByUser highlight.
func (h *CustomerHandler) GetMyLayout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	buildingID, floorID, areaID, err := tripleParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location path"})
	}
	width := grid.MediumMaxWidth + 1
	if w, err := strconv.Atoi(c.QueryParam("width")); err == nil && w > 0 {
		width = w
	}
	ctx := c.Request().Context()
	if err := h.BuildingRepo.VerifyTriple(ctx, buildingID, floorID, areaID); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	niches, err := h.NicheRepo.ListByTriple(ctx, buildingID, floorID, areaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	mine, err := h.NicheRepo.ReservedByCustomer(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	cells := make([]grid.Cell, 0, len(niches))
	for _, n := range niches {
		cells = append(cells, grid.NewCell(n, mine[n.ID]))
	}
	return c.JSON(http.StatusOK, grid.Build(cells, width))
}

// CreateReservation handles POST /api/NicheReservations.  It places a
// time-boxed Pending hold on an Available niche.  For authenticated
// customers the requester identity comes from the user record, not the
// request body.  Field violations return 400 with the errors map;
// business-rule rejections (quota, niche taken) return 409 with a flat
// error message that clients surface verbatim.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	// identity is trusted from the session when the account carries it
	u, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	name, phone := req.Name, req.PhoneNumber
	if u.FullName != "" {
		name = u.FullName
	}
	if u.Phone != "" {
		phone = u.Phone
	}

	contractDate, okDate := parseConfirmationDate(req.ConfirmationDate)
	in := validate.ReservationInput{
		NicheID:     req.NicheID,
		Name:        name,
		PhoneNumber: phone,
		SignAddress: req.SignAddress,
		Note:        req.Note,
		IsCustomer:  true,
	}
	if okDate {
		in.ContractDate = contractDate
	}
	if fe := validate.Reservation(in, time.Now()); !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// sweep lapsed holds first so they free their niches and quota
	if expired, errExp := h.ReservationRepo.ExpireDueTx(ctx, tx); errExp != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	} else if len(expired) > 0 {
		if errUp := h.NicheRepo.BulkUpdateStatusTx(ctx, tx, expired, model.StatusAvailable); errUp != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
		}
	}

	niche, err := h.NicheRepo.GetForUpdateTx(ctx, tx, req.NicheID)
	if err != nil {
		if errors.Is(err, repository.ErrNicheNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "niche not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !niche.Status.Selectable() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "niche is no longer available"})
	}

	active, err := h.ReservationRepo.CountActiveByPhoneTx(ctx, tx, phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if active >= validate.MaxActivePerPhone {
		return c.JSON(http.StatusConflict, echo.Map{"error": validate.QuotaMessage})
	}

	var note *string
	if req.Note != "" {
		note = &req.Note
	}
	rec := &repository.ReservationRecord{
		Code:             uuid.NewString(),
		NicheID:          req.NicheID,
		CustomerID:       &userID,
		Name:             name,
		PhoneNumber:      phone,
		SignAddress:      req.SignAddress,
		Note:             note,
		IsCustomer:       true,
		Status:           model.ReservationPending,
		ConfirmationDate: validate.EndOfDay(contractDate),
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := h.NicheRepo.UpdateStatusTx(ctx, tx, req.NicheID, model.StatusBooked); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update niche status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	log.Printf("reservation %s created: niche=%d phone=%s expires=%s",
		rec.Code, rec.NicheID, rec.PhoneNumber, rec.ConfirmationDate.UTC().Format(time.RFC3339))
	return c.JSON(http.StatusCreated, echo.Map{
		"reservationId":    rec.ID,
		"code":             rec.Code,
		"nicheId":          rec.NicheID,
		"status":           rec.Status,
		"confirmationDate": rec.ConfirmationDate.UTC().Format(time.RFC3339),
	})
}

// ListMyReservations handles GET /api/NicheReservations/customer.  It
// returns every reservation the caller has created, newest first,
// wrapped in the `$values` envelope.
func (h *CustomerHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, wrapValues(details))
}

// GetReservation handles GET /api/NicheReservations/:id for customers.
// Customers can only see their own records.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	det, err := h.ReservationRepo.GetDetail(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	// ownership is checked against the phone-independent customer link
	owner, _, err := h.ownerOf(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if owner == nil || *owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// ownerOf reads ownership outside the write path via a short read-only
// transaction.
func (h *CustomerHandler) ownerOf(ctx context.Context, id uint64) (*uint64, string, error) {
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = tx.Rollback() }()
	return h.ReservationRepo.OwnerOfTx(ctx, tx, id)
}

// updateReservationReq carries the client-mutable subset of fields.
type updateReservationReq struct {
	ConfirmationDate string `json:"confirmationDate"`
	SignAddress      string `json:"signAddress"`
	Note             string `json:"note"`
}

// UpdateReservation handles PUT /api/NicheReservations/:id.  Only the
// mutable subset (confirmation date, note, sign address) is written,
// and only while the record is still Pending.  The fresh record is
// returned so the client can refetch-render in one round trip.
func (h *CustomerHandler) UpdateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	contractDate, _ := parseConfirmationDate(req.ConfirmationDate)
	fe := validate.FieldErrors{}
	if msg := validate.ContractDateError(contractDate, time.Now()); msg != "" {
		fe["confirmationDate"] = []string{msg}
	}
	if !validate.ValidSignAddress(req.SignAddress) {
		fe["signAddress"] = []string{"signAddress must be one of the signing offices"}
	}
	if !fe.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fe})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	owner, status, err := h.ReservationRepo.OwnerOfTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if owner == nil || *owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.ReservationEditable(status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be edited"})
	}
	var note *string
	if req.Note != "" {
		note = &req.Note
	}
	if err := h.ReservationRepo.UpdateMutableTx(ctx, tx, resID, validate.EndOfDay(contractDate), note, req.SignAddress); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	det, err := h.ReservationRepo.GetDetail(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// CancelReservation handles DELETE /api/NicheReservations/:id.  The
// record is status-transitioned to Canceled (never deleted) and the
// niche is returned to Available, all in one transaction.  Returns 204
// on success.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := h.ReservationRepo.GetForUpdateTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if rec.CustomerID == nil || *rec.CustomerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.ReservationEditable(rec.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be canceled"})
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, resID, model.ReservationCanceled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	if err := h.NicheRepo.UpdateStatusTx(ctx, tx, rec.NicheID, model.StatusAvailable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update niche status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
