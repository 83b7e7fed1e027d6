package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/model"
	"github.com/anvule/columbarium-reservation/internal/store"
)

// CartHandler serves the per-customer memorial goods cart backed by
// Redis.  The cart is a convenience surface; when Redis is down the
// routes answer 503 and the rest of the service keeps working.
type CartHandler struct {
	Store *store.CartStore
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(s *store.CartStore) *CartHandler {
	if s == nil {
		panic("nil store passed to NewCartHandler")
	}
	return &CartHandler{Store: s}
}

func cartError(c echo.Context, err error) error {
	if errors.Is(err, store.ErrCartUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "cart is temporarily unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart operation failed"})
}

// AddItem handles POST /v1/cart/items.  Adding an item that is already
// in the cart increments its quantity instead of duplicating the row.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var item model.CartItem
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if item.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item id is required"})
	}
	merged, err := h.Store.Add(c.Request().Context(), userID, item)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": merged})
}

// ListItems handles GET /v1/cart.  Items come back ordered by ID so
// the cart renders stably across refreshes.
func (h *CartHandler) ListItems(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Store.List(c.Request().Context(), userID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, wrapValues(items))
}

// RemoveItem handles DELETE /v1/cart/items/:itemId.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || itemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Store.Remove(c.Request().Context(), userID, itemID); err != nil {
		return cartError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearCart handles DELETE /v1/cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Store.Clear(c.Request().Context(), userID); err != nil {
		return cartError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
