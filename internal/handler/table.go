package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/repository"
)

// TableHandler exposes table configuration: the hall's floor plan is
// edited rarely, but the dashboard lists tables (with derived
// availability) continuously.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	if tables == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables}
}

type tableResp struct {
	ID        uint64 `json:"id"`
	Number    uint32 `json:"number"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// List handles GET /v1/tables.  The optional ?available=true|false
// query parameter filters to free or occupied tables.
func (h *TableHandler) List(c echo.Context) error {
	var available *bool
	if v := c.QueryParam("available"); v != "" {
		b := strings.EqualFold(v, "true")
		available = &b
	}
	tables, err := h.Tables.List(c.Request().Context(), available)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableResp{ID: t.ID, Number: t.Number, Name: t.Name, Available: t.Available})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/tables.
func (h *TableHandler) Create(c echo.Context) error {
	var body struct {
		Number uint32 `json:"number"`
		Name   string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Number == 0 || body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and name are required"})
	}
	id, err := h.Tables.Create(c.Request().Context(), body.Number, body.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, tableResp{ID: id, Number: body.Number, Name: body.Name, Available: true})
}

// Update handles PUT /v1/tables/:id.
func (h *TableHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		Number uint32 `json:"number"`
		Name   string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Number == 0 || body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and name are required"})
	}
	if err := h.Tables.Update(c.Request().Context(), id, body.Number, body.Name); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update table failed"})
	}
	return c.JSON(http.StatusOK, tableResp{ID: id, Number: body.Number, Name: body.Name})
}

// Delete handles DELETE /v1/tables/:id.  Deleting a table that still
// has an open session responds 409; the game has to be stopped first.
func (h *TableHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has an open session"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete table failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
