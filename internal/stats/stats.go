// Package stats summarizes historical sessions for the dashboard.  All
// functions are read-only folds over a session slice: callers fetch the
// records once and derive every figure in memory, so an empty input
// simply yields zero values instead of an error.
package stats

import (
	"time"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// NoPeakHour is returned by PeakHour when no session started on the
// requested day.
const NoPeakHour = -1

// sameDay reports whether t falls on the same calendar day as day,
// evaluated in day's location.
func sameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DailyRevenue sums the price of every session started on the given day.
// Revenue is recognized at session close, not at payment, so the paid
// flag is ignored.
func DailyRevenue(sessions []model.Session, day time.Time) int64 {
	var total int64
	for _, s := range sessions {
		if sameDay(s.StartedAt, day) {
			total += s.PriceMillimes
		}
	}
	return total
}

// PeakHour returns the hour of day (0-23) whose sessions produced the
// highest summed price on the given day.  Ties resolve to the earliest
// hour.  When no session started that day it returns NoPeakHour.
func PeakHour(sessions []model.Session, day time.Time) int {
	var byHour [24]int64
	seen := false
	for _, s := range sessions {
		if !sameDay(s.StartedAt, day) {
			continue
		}
		byHour[s.StartedAt.In(day.Location()).Hour()] += s.PriceMillimes
		seen = true
	}
	if !seen {
		return NoPeakHour
	}
	best := 0
	for h := 1; h < 24; h++ {
		if byHour[h] > byHour[best] {
			best = h
		}
	}
	return best
}

// UnpaidCount counts the sessions that have not been settled yet.  The
// caller decides the scope: pass the full ledger for an all-time figure
// or a pre-filtered slice for a single day.
func UnpaidCount(sessions []model.Session) int {
	n := 0
	for _, s := range sessions {
		if !s.Paid {
			n++
		}
	}
	return n
}

// TotalGames counts the closed sessions that started on the given day.
// Open sessions are excluded: a game only counts once it has finished.
func TotalGames(sessions []model.Session, day time.Time) int {
	n := 0
	for _, s := range sessions {
		if !s.Open() && sameDay(s.StartedAt, day) {
			n++
		}
	}
	return n
}
