package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/model"
	"github.com/skanderbh/billiard-hall/internal/queue"
	"github.com/skanderbh/billiard-hall/internal/repository"
	"github.com/skanderbh/billiard-hall/internal/service"
)

// SessionHandler exposes the session lifecycle over HTTP: start, stop,
// payment toggle, ledger listing and the per-table live view.  All
// mutations go through the lifecycle service, which is the sole owner of
// the session rules; the handler only parses requests and shapes
// responses.
type SessionHandler struct {
	Lifecycle *service.Lifecycle
	Sessions  *repository.SessionRepo
	Tables    *repository.TableRepo
	Clients   *repository.ClientRepo
	Rates     *repository.RateRepo
}

// NewSessionHandler constructs a SessionHandler.  All dependencies must
// be non-nil.
func NewSessionHandler(l *service.Lifecycle, sessions *repository.SessionRepo, tables *repository.TableRepo, clients *repository.ClientRepo, rates *repository.RateRepo) *SessionHandler {
	if l == nil || sessions == nil || tables == nil || clients == nil || rates == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Lifecycle: l, Sessions: sessions, Tables: tables, Clients: clients, Rates: rates}
}

// Start handles POST /v1/sessions.  The body names the table and the
// client (numeric ID or name; unknown names are registered on the fly)
// plus an optional queued next player.  Responds 201 with the open
// session, 409 when the table is busy.
func (h *SessionHandler) Start(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TableID    uint64  `json:"table_id"`
		Client     string  `json:"client"`
		NextPlayer *string `json:"next_player"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}

	s, err := h.Lifecycle.Start(c.Request().Context(), body.TableID, body.Client, body.NextPlayer)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResp(s))
}

// Stop handles POST /v1/sessions/:id/stop.  It closes the session,
// freezes its price and frees the table, then publishes a session.closed
// event for the audit log.  A second stop on the same session responds
// 404.
func (h *SessionHandler) Stop(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body struct {
		Loser *string `json:"loser"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	s, err := h.Lifecycle.Stop(c.Request().Context(), id, body.Loser)
	if err != nil {
		return writeDomainError(c, err)
	}

	// Best effort: the stop succeeded, event delivery must not undo it.
	go h.publishClosed(s, userID)

	return c.JSON(http.StatusOK, toSessionResp(s))
}

// TogglePaid handles POST /v1/sessions/:id/toggle-paid.  Flips the paid
// flag on an open or closed session.
func (h *SessionHandler) TogglePaid(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	s, err := h.Lifecycle.TogglePaid(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// List handles GET /v1/sessions.  Supported query parameters: open,
// paid (true/false), table_id, client_id and day (YYYY-MM-DD, UTC).
// Results come back newest first.
func (h *SessionHandler) List(c echo.Context) error {
	var f repository.SessionFilter
	if v := c.QueryParam("open"); v != "" {
		b := v == "true"
		f.Open = &b
	}
	if v := c.QueryParam("paid"); v != "" {
		b := v == "true"
		f.Paid = &b
	}
	if v := c.QueryParam("table_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.TableID = &id
		}
	}
	if v := c.QueryParam("client_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.ClientID = &id
		}
	}
	if v := c.QueryParam("day"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day, want YYYY-MM-DD"})
		}
		f.Day = &day
	}

	sessions, err := h.Sessions.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Live handles GET /v1/tables/:id/session.  It returns the table's open
// session with its price computed at wall-clock now, or 200 with a null
// session when the table is free.  The dashboard polls this once per
// second per occupied table.
func (h *SessionHandler) Live(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	s, price, err := h.Lifecycle.OpenSession(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	if s == nil {
		return c.JSON(http.StatusOK, echo.Map{"session": nil})
	}
	resp := toSessionResp(*s)
	resp.PriceMillimes = price
	return c.JSON(http.StatusOK, echo.Map{"session": resp})
}

// publishClosed enriches the closed session with table and client names
// and hands it to the broker.  Lookups run on a fresh context: the HTTP
// request that triggered the stop is already answered.
func (h *SessionHandler) publishClosed(s model.Session, userID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.SessionClosedEvent{
		SessionID:     s.ID,
		TableID:       s.TableID,
		StartedAt:     s.StartedAt.UTC().Format(time.RFC3339),
		PriceMillimes: s.PriceMillimes,
		ClosedBy:      userID,
	}
	if s.EndedAt != nil {
		ev.EndedAt = s.EndedAt.UTC().Format(time.RFC3339)
	}
	if s.Loser != nil {
		ev.Loser = *s.Loser
	}
	if t, err := h.Tables.GetByID(ctx, s.TableID); err == nil {
		ev.TableName = t.Name
	}
	if s.ClientID != nil {
		if cl, err := h.Clients.GetByID(ctx, *s.ClientID); err == nil {
			ev.ClientName = cl.Name
		}
	}
	if rate, err := h.Rates.Current(ctx); err == nil || err == sql.ErrNoRows {
		ev.Currency = rate.Currency
	}
	_ = queue.PublishSessionClosed(ctx, ev)
}
