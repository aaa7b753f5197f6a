// Package billing computes the price of a table session from its elapsed
// time and the room's rate configuration.  It is pure: the same inputs
// always yield the same amount, so the dashboard may call it every second
// for a live figure and the lifecycle service calls it once more,
// authoritatively, when a session is stopped.
package billing

import (
	"errors"
	"math"
	"time"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// ErrInvalidRange is returned when the end timestamp precedes the start
// timestamp, or when the rate configuration contains a negative rate or
// threshold.  Handlers should translate this into an HTTP 400 response.
var ErrInvalidRange = errors.New("invalid range")

// ComputePrice returns the price in millimes for the interval
// [start, end] under the given rate config.
//
// Rounding policy: the elapsed time is floored to whole seconds and
// minutes are kept fractional (seconds / 60); only the final amount is
// rounded, to the nearest millime.  This keeps the live figure monotonic
// second by second instead of jumping once per minute.
//
// Tier rule: while the running total at the base rate stays within
// rate.Threshold the whole interval is billed at rate.BaseRate.  Once the
// base-rate total would exceed the threshold, the minutes needed to reach
// the threshold are billed at the base rate and every remaining minute at
// rate.ReducedRate.  A base rate of zero therefore always prices to zero,
// whatever the elapsed time: the base total never reaches the threshold.
// That quirk mirrors the configured policy and is kept as is.
func ComputePrice(start, end time.Time, rate model.RateConfig) (int64, error) {
	if rate.BaseRate < 0 || rate.ReducedRate < 0 || rate.Threshold < 0 {
		return 0, ErrInvalidRange
	}
	elapsed := end.Sub(start)
	if elapsed < 0 {
		return 0, ErrInvalidRange
	}

	seconds := int64(elapsed / time.Second) // floor to whole seconds
	minutes := float64(seconds) / 60.0

	fullBase := minutes * float64(rate.BaseRate)
	if fullBase <= float64(rate.Threshold) {
		return int64(math.Round(fullBase)), nil
	}

	// Past the threshold: bill the minutes consumed to reach it at the
	// base rate, the rest at the reduced rate.
	minutesAtBase := float64(rate.Threshold) / float64(rate.BaseRate)
	remaining := minutes - minutesAtBase
	return rate.Threshold + int64(math.Round(remaining*float64(rate.ReducedRate))), nil
}
