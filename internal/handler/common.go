package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/billing"
	"github.com/skanderbh/billiard-hall/internal/model"
	"github.com/skanderbh/billiard-hall/internal/repository"
	"github.com/skanderbh/billiard-hall/internal/service"
)

// getUserID extracts the user_id set by the JWT middleware and converts
// it to uint64.  JWT numeric claims decode as float64, hence the type
// switch.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// sessionResp is the JSON shape of a session.  Timestamps go out as
// RFC3339 UTC; the dashboard does all display formatting.
type sessionResp struct {
	ID            uint64  `json:"id"`
	TableID       uint64  `json:"table_id"`
	ClientID      *uint64 `json:"client_id,omitempty"`
	StartedAt     string  `json:"started_at"`
	EndedAt       *string `json:"ended_at,omitempty"`
	PriceMillimes int64   `json:"price_millimes"`
	Paid          bool    `json:"paid"`
	NextPlayer    *string `json:"next_player,omitempty"`
	Loser         *string `json:"loser,omitempty"`
	Open          bool    `json:"open"`
}

func toSessionResp(s model.Session) sessionResp {
	out := sessionResp{
		ID:            s.ID,
		TableID:       s.TableID,
		ClientID:      s.ClientID,
		StartedAt:     s.StartedAt.UTC().Format(time.RFC3339),
		PriceMillimes: s.PriceMillimes,
		Paid:          s.Paid,
		NextPlayer:    s.NextPlayer,
		Loser:         s.Loser,
		Open:          s.Open(),
	}
	if s.EndedAt != nil {
		iso := s.EndedAt.UTC().Format(time.RFC3339)
		out.EndedAt = &iso
	}
	return out
}

// writeDomainError maps the service and billing error kinds onto HTTP
// statuses so every failure surfaces as a distinct, inspectable
// response.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, service.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, service.ErrClientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	case errors.Is(err, service.ErrSessionClosed):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session already closed"})
	case errors.Is(err, service.ErrTableBusy):
		return c.JSON(http.StatusConflict, echo.Map{"error": "table busy"})
	case errors.Is(err, service.ErrEmptyClientName):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client name required"})
	case errors.Is(err, billing.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid range"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
