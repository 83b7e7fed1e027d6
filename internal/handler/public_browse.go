// Package handler exposes HTTP handlers for authenticated and public
// endpoints.  This file serves the public browsing API: the location
// tree for the cascade pickers and the per-area niche list and grid
// layout.  These routes carry no authentication so visitors can
// explore availability before registering.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anvule/columbarium-reservation/internal/grid"
	"github.com/anvule/columbarium-reservation/internal/model"
	"github.com/anvule/columbarium-reservation/internal/repository"
)

// PublicHandler aggregates the repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	BuildingRepo *repository.BuildingRepo // location tree
	NicheRepo    *repository.NicheRepo    // niche lists per area
}

// area/floor/building DTOs reproduce the legacy payload shape, with
// each embedded array wrapped in the `$values` envelope.
type publicArea struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type publicFloor struct {
	ID    uint64         `json:"id"`
	Name  string         `json:"name"`
	Areas valuesEnvelope `json:"areas"`
}

type publicBuilding struct {
	ID     uint64         `json:"id"`
	Name   string         `json:"name"`
	Floors valuesEnvelope `json:"floors"`
}

// publicNiche is one niche row in the flat area listing.  Status is
// always one of the normalized variants.
type publicNiche struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	Status         model.NicheStatus `json:"status"`
	ReservedByUser bool              `json:"reservedByUser"`
}

// GetLocationTree handles GET /api/Buildings/all-data.  It returns the
// whole building → floor → area tree in one payload so the cascade
// pickers never need follow-up requests.  Response shape:
// { "buildings": { "$values": [...] } }.
func (h *PublicHandler) GetLocationTree(c echo.Context) error {
	ctx := c.Request().Context()
	tree, err := h.BuildingRepo.LoadTree(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicBuilding, 0, len(tree))
	for _, b := range tree {
		floors := make([]publicFloor, 0, len(b.Floors))
		for _, f := range b.Floors {
			areas := make([]publicArea, 0, len(f.Areas))
			for _, a := range f.Areas {
				areas = append(areas, publicArea{ID: a.ID, Name: a.Name})
			}
			floors = append(floors, publicFloor{ID: f.ID, Name: f.Name, Areas: wrapValues(areas)})
		}
		out = append(out, publicBuilding{ID: b.ID, Name: b.Name, Floors: wrapValues(floors)})
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": wrapValues(out)})
}

// tripleParams parses the buildingId/floorId/areaId path parameters.
func tripleParams(c echo.Context) (buildingID, floorID, areaID uint64, err error) {
	buildingID, err = strconv.ParseUint(c.Param("buildingId"), 10, 64)
	if err != nil {
		return
	}
	floorID, err = strconv.ParseUint(c.Param("floorId"), 10, 64)
	if err != nil {
		return
	}
	areaID, err = strconv.ParseUint(c.Param("areaId"), 10, 64)
	return
}

// GetNiches handles
// GET /api/Buildings/:buildingId/floors/:floorId/areas/:areaId.  It
// returns the flat niche list for the triple as { "$values": [...] }.
// A broken location path yields 404; a valid but empty area yields an
// empty array.
func (h *PublicHandler) GetNiches(c echo.Context) error {
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
	out := make([]publicNiche, 0, len(niches))
	for _, n := range niches {
		out = append(out, publicNiche{ID: n.ID, Name: n.Name, Status: n.Status})
	}
	return c.JSON(http.StatusOK, wrapValues(out))
}

// GetLayout handles GET .../areas/:areaId/layout?width=<px>.  It
// computes the floor-plan grid for the requested viewport width so the
// portal and the console render identical plans.  Width defaults to
// the large tier when absent or unparsable.
func (h *PublicHandler) GetLayout(c echo.Context) error {
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
	cells := make([]grid.Cell, 0, len(niches))
	for _, n := range niches {
		cells = append(cells, grid.NewCell(n, false))
	}
	return c.JSON(http.StatusOK, grid.Build(cells, width))
}
