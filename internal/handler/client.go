package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/repository"
)

// ClientHandler exposes the patron registry.  Most clients are created
// implicitly when a session starts for a new name; this handler covers
// the explicit path plus the dashboard's instant search box.
type ClientHandler struct {
	Clients *repository.ClientRepo
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clients *repository.ClientRepo) *ClientHandler {
	if clients == nil {
		panic("nil repository passed to NewClientHandler")
	}
	return &ClientHandler{Clients: clients}
}

type clientResp struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// List handles GET /v1/clients.  The optional ?search= parameter does a
// name-prefix search; ?limit= caps the result count (default 10).
func (h *ClientHandler) List(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	clients, err := h.Clients.Search(c.Request().Context(), c.QueryParam("search"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]clientResp, 0, len(clients))
	for _, cl := range clients {
		out = append(out, clientResp{ID: cl.ID, Name: cl.Name, Phone: cl.Phone})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/clients for registering a patron ahead of
// their first game, optionally with a phone number.
func (h *ClientHandler) Create(c echo.Context) error {
	var body struct {
		Name  string  `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	id, err := h.Clients.Create(c.Request().Context(), body.Name, body.Phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create client failed"})
	}
	return c.JSON(http.StatusCreated, clientResp{ID: id, Name: body.Name, Phone: body.Phone})
}
