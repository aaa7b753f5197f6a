package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skanderbh/billiard-hall/internal/repository"
)

// RateHandler exposes the room's billing policy.  Reads are open to all
// staff so the dashboard can render the tariff; writes are restricted to
// ADMIN by route middleware.  Changing the policy affects open and
// future sessions only; closed sessions keep their frozen price.
type RateHandler struct {
	Rates *repository.RateRepo
}

// NewRateHandler constructs a RateHandler.
func NewRateHandler(rates *repository.RateRepo) *RateHandler {
	if rates == nil {
		panic("nil repository passed to NewRateHandler")
	}
	return &RateHandler{Rates: rates}
}

type rateResp struct {
	BaseRate    int64  `json:"base_rate_millimes"`
	ReducedRate int64  `json:"reduced_rate_millimes"`
	Threshold   int64  `json:"threshold_millimes"`
	Currency    string `json:"currency"`
	UpdatedAt   string `json:"updated_at"`
}

// Get handles GET /v1/rates.
func (h *RateHandler) Get(c echo.Context) error {
	rate, err := h.Rates.Current(c.Request().Context())
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rate config not set"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rateResp{
		BaseRate:    rate.BaseRate,
		ReducedRate: rate.ReducedRate,
		Threshold:   rate.Threshold,
		Currency:    rate.Currency,
		UpdatedAt:   rate.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// Update handles PUT /v1/rates.  Rates and threshold are millimes and
// must be non-negative.
func (h *RateHandler) Update(c echo.Context) error {
	var body struct {
		BaseRate    int64  `json:"base_rate_millimes"`
		ReducedRate int64  `json:"reduced_rate_millimes"`
		Threshold   int64  `json:"threshold_millimes"`
		Currency    string `json:"currency"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BaseRate < 0 || body.ReducedRate < 0 || body.Threshold < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rates and threshold must be non-negative"})
	}
	body.Currency = strings.TrimSpace(body.Currency)
	if body.Currency == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is required"})
	}

	rate, err := h.Rates.Update(c.Request().Context(), body.BaseRate, body.ReducedRate, body.Threshold, body.Currency)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update rate config failed"})
	}
	return c.JSON(http.StatusOK, rateResp{
		BaseRate:    rate.BaseRate,
		ReducedRate: rate.ReducedRate,
		Threshold:   rate.Threshold,
		Currency:    rate.Currency,
		UpdatedAt:   rate.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
