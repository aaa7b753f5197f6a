package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skanderbh/billiard-hall/internal/model"
)

func closedAt(start time.Time, d time.Duration, price int64, paid bool) model.Session {
	end := start.Add(d)
	return model.Session{
		StartedAt:     start,
		EndedAt:       &end,
		PriceMillimes: price,
		Paid:          paid,
	}
}

func TestDailyRevenue(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		closedAt(day.Add(10*time.Hour), 20*time.Minute, 3500, true),
		closedAt(day.Add(14*time.Hour), 30*time.Minute, 4500, false),             // unpaid still counts
		closedAt(day.AddDate(0, 0, -1).Add(10*time.Hour), time.Hour, 9000, true), // previous day
	}

	assert.Equal(t, int64(8000), DailyRevenue(sessions, day))
	assert.Equal(t, int64(0), DailyRevenue(nil, day))
}

func TestPeakHour(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		closedAt(day.Add(10*time.Hour), 20*time.Minute, 1000, true),
		closedAt(day.Add(10*time.Hour+30*time.Minute), 20*time.Minute, 1500, true),
		closedAt(day.Add(21*time.Hour), time.Hour, 2000, true),
		closedAt(day.AddDate(0, 0, 1).Add(21*time.Hour), time.Hour, 99999, true), // next day
	}

	// 10h accrues 2500, 21h only 2000.
	assert.Equal(t, 10, PeakHour(sessions, day))
}

func TestPeakHourTieBreaksToEarliestHour(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		closedAt(day.Add(18*time.Hour), time.Hour, 2000, true),
		closedAt(day.Add(9*time.Hour), time.Hour, 2000, true),
	}
	assert.Equal(t, 9, PeakHour(sessions, day))
}

func TestPeakHourNoData(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, NoPeakHour, PeakHour(nil, day))
	assert.Equal(t, NoPeakHour, PeakHour([]model.Session{
		closedAt(day.AddDate(0, 0, -3), time.Hour, 5000, true),
	}, day))
}

func TestUnpaidCount(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		closedAt(day, time.Hour, 1000, true),
		closedAt(day, time.Hour, 1000, false),
		closedAt(day.AddDate(0, 0, -5), time.Hour, 1000, false),
	}
	assert.Equal(t, 2, UnpaidCount(sessions))
	assert.Equal(t, 0, UnpaidCount(nil))
}

func TestTotalGames(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	open := model.Session{StartedAt: day.Add(11 * time.Hour)} // still running
	sessions := []model.Session{
		closedAt(day.Add(10*time.Hour), time.Hour, 1000, true),
		closedAt(day.Add(12*time.Hour), time.Hour, 1000, false),
		closedAt(day.AddDate(0, 0, -1), time.Hour, 1000, true),
		open,
	}
	assert.Equal(t, 2, TotalGames(sessions, day))
}
