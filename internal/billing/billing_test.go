package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// Standard room policy used across the tests: 0.200 DT/min at the base
// rate, switching to 0.100 DT/min once 3.000 DT has accrued.
var stdRate = model.RateConfig{
	BaseRate:    200,
	ReducedRate: 100,
	Threshold:   3000,
	Currency:    "DT",
}

func TestComputePriceBelowThreshold(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int64
	}{
		{"zero elapsed", 0, 0},
		{"one minute", time.Minute, 200},
		{"ten minutes", 10 * time.Minute, 2000},
		{"exactly at threshold", 15 * time.Minute, 3000},
		{"fractional minute", 90 * time.Second, 300},
		{"sub-second floored", 30*time.Second + 400*time.Millisecond, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputePrice(start, start.Add(tc.elapsed), stdRate)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputePriceAboveThreshold(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// The canonical case under the room policy: 20 minutes of play.
	// 20 * 200 = 4000 > 3000, so 15 minutes accrue at the base rate and
	// the remaining 5 at the reduced one: 3000 + 5*100 = 3500.
	got, err := ComputePrice(start, start.Add(20*time.Minute), stdRate)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), got)

	// One hour: 3000 + 45*100.
	got, err = ComputePrice(start, start.Add(time.Hour), stdRate)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), got)
}

func TestComputePriceStrictlyIncreasing(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	prev := int64(-1)
	for m := 1; m <= 120; m += 7 {
		got, err := ComputePrice(start, start.Add(time.Duration(m)*time.Minute), stdRate)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "price must grow with elapsed time at minute %d", m)
		prev = got
	}
}

func TestComputePriceZeroBaseRate(t *testing.T) {
	// With a zero base rate the base total never reaches the threshold,
	// so every session prices to zero. Documented quirk.
	rate := model.RateConfig{BaseRate: 0, ReducedRate: 100, Threshold: 3000}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	got, err := ComputePrice(start, start.Add(5*time.Hour), rate)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestComputePriceSameInstantIsZero(t *testing.T) {
	now := time.Now()
	got, err := ComputePrice(now, now, stdRate)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestComputePriceEndBeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := ComputePrice(start, start.Add(-time.Second), stdRate)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputePriceRejectsNegativeRates(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	for _, rate := range []model.RateConfig{
		{BaseRate: -1, ReducedRate: 100, Threshold: 3000},
		{BaseRate: 200, ReducedRate: -1, Threshold: 3000},
		{BaseRate: 200, ReducedRate: 100, Threshold: -1},
	} {
		_, err := ComputePrice(start, end, rate)
		assert.ErrorIs(t, err, ErrInvalidRange)
	}
}
