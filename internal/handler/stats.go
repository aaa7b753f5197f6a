package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/repository"
	"github.com/skanderbh/billiard-hall/internal/stats"
)

// StatsHandler serves the dashboard's headline numbers.  It loads the
// day's sessions once and derives every figure in memory with the pure
// folds from the stats package; the Redis response cache in front of the
// route absorbs the dashboard's polling.
type StatsHandler struct {
	Sessions *repository.SessionRepo
	Tables   *repository.TableRepo
	Rates    *repository.RateRepo
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(sessions *repository.SessionRepo, tables *repository.TableRepo, rates *repository.RateRepo) *StatsHandler {
	if sessions == nil || tables == nil || rates == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Sessions: sessions, Tables: tables, Rates: rates}
}

// Get handles GET /v1/stats.  The optional ?day=YYYY-MM-DD parameter
// selects the day (UTC); it defaults to today.  peak_hour is -1 when the
// day has no sessions.
func (h *StatsHandler) Get(c echo.Context) error {
	day := time.Now().UTC()
	if v := c.QueryParam("day"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day, want YYYY-MM-DD"})
		}
		day = parsed
	}

	ctx := c.Request().Context()

	daySessions, err := h.Sessions.List(ctx, repository.SessionFilter{Day: &day})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// Unpaid is an all-time figure: a debt does not expire at midnight.
	unpaid := false
	unpaidSessions, err := h.Sessions.List(ctx, repository.SessionFilter{Paid: &unpaid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tables, err := h.Tables.List(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	currency := ""
	if rate, err := h.Rates.Current(ctx); err == nil {
		currency = rate.Currency
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	active := 0
	available := 0
	for _, t := range tables {
		if t.Available {
			available++
		} else {
			active++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"day":              day.Format("2006-01-02"),
		"revenue_millimes": stats.DailyRevenue(daySessions, day),
		"currency":         currency,
		"peak_hour":        stats.PeakHour(daySessions, day),
		"total_games":      stats.TotalGames(daySessions, day),
		"unpaid_count":     stats.UnpaidCount(unpaidSessions),
		"active_sessions":  active,
		"available_tables": fmt.Sprintf("%d/%d", available, len(tables)),
	})
}
