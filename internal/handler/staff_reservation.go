package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/model"
	"github.com/anvule/columbarium-reservation/internal/queue"
	"github.com/anvule/columbarium-reservation/internal/repository"
	queue_publisher "github.com/anvule/columbarium-reservation/internal/service"
	"github.com/anvule/columbarium-reservation/internal/validate"
)

// StaffHandler serves the back-office console: full reservation
// listing, phone lookup, confirmation and cancellation on behalf of
// walk-in customers. All routes sit behind the STAFF role middleware.
type StaffHandler struct {
	NicheRepo       *repository.NicheRepo
	ReservationRepo *repository.ReservationRepo
}

// NewStaffHandler constructs a StaffHandler.
func NewStaffHandler(nicheRepo *repository.NicheRepo, reservationRepo *repository.ReservationRepo) *StaffHandler {
	if nicheRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewStaffHandler")
	}
	return &StaffHandler{NicheRepo: nicheRepo, ReservationRepo: reservationRepo}
}

// ListReservations handles GET /api/NicheReservations/all.  With a
// ?phone= filter it narrows to that customer's records; without it the
// full ledger is returned, newest first.
func (h *StaffHandler) ListReservations(c echo.Context) error {
	ctx := c.Request().Context()
	phone := c.QueryParam("phone")
	var (
		details []repository.ReservationDetail
		err     error
	)
	if phone != "" {
		if !validate.ValidPhone(phone) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
		}
		details, err = h.ReservationRepo.ListByPhone(ctx, phone)
	} else {
		details, err = h.ReservationRepo.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, wrapValues(details))
}

// GetReservation handles GET /api/NicheReservations/:id for staff.
// Unlike the customer route there is no ownership restriction.
func (h *StaffHandler) GetReservation(c echo.Context) error {
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	det, err := h.ReservationRepo.GetDetail(c.Request().Context(), resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// ConfirmReservation handles PUT /api/NicheReservations/:id/confirm.
// It approves a Pending reservation: the status flips to Approved, the
// confirmation timestamp is stamped server-side, and a
// ReservationConfirmedEvent is published for downstream consumers.
// Publishing is best-effort; a broker failure never rolls back the
// approval.
func (h *StaffHandler) ConfirmReservation(c echo.Context) error {
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
	if rec.Status != model.ReservationPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only pending reservations can be confirmed"})
	}
	if err := h.ReservationRepo.ConfirmTx(ctx, tx, resID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	det, err := h.ReservationRepo.GetDetail(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}

	go func(d repository.ReservationDetail) {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ev := queue.ReservationConfirmedEvent{
			ReservationID: d.ReservationID,
			Code:          d.Code,
			NicheID:       d.NicheID,
			NicheName:     d.NicheName,
			BuildingName:  d.BuildingName,
			FloorName:     d.FloorName,
			AreaName:      d.AreaName,
			CustomerName:  d.Name,
			PhoneNumber:   d.PhoneNumber,
			SignAddress:   d.SignAddress,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishReservationConfirmed(pubCtx, ev); err != nil {
			log.Printf("confirm: publish event for reservation %d failed: %v", d.ReservationID, err)
		}
	}(*det)

	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// CancelReservation handles DELETE /api/NicheReservations/staff/:id.
// Staff may cancel any Pending reservation regardless of owner; the
// niche returns to Available.
func (h *StaffHandler) CancelReservation(c echo.Context) error {
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
