// Package recurrence turns a transaction's date range into the monthly
// billing segments a recurring series is materialized from.
package recurrence

import (
	"time"

	"renovest/internal/apperr"
	"renovest/internal/models"
)

// Segment is one {start, end} sub-range; a series persists one
// transaction row per segment.
type Segment struct {
	Start time.Time
	End   time.Time
}

// minSegment guards against a trailing partial month of a few days
// being split into a near-empty segment of its own.
const minSegment = 28 * 24 * time.Hour

// ValidateDates rejects a revenue transaction whose range ends before
// it starts. Expense transactions and open-ended ranges pass.
func ValidateDates(txType models.TransactionType, start time.Time, end *time.Time) error {
	if txType == models.TransactionTypeRevenue && end != nil && start.After(*end) {
		return apperr.Validationf("revenue transaction cannot end (%s) before it starts (%s)",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return nil
}

// Split breaks [start, end] into ordered segments, one per recurrence.
//
// ONE_TIME returns the range unchanged, even if end < start; no
// validation happens here.
//
// RECURRING takes start's day-of-month as the fixed anchor and walks
// every calendar month from start's month through end's month in UTC.
// Each month opens at its anchor date and closes at the next month's
// anchor date, except the final month, which closes at the caller's
// original end so the requested close date is preserved exactly.
// When the anchor day does not exist in a month (day 31 in a 30-day
// month) the date normalizes forward into the next month, e.g. an
// anchor of 31 gives 2024-03-02 for February 2024; the splitter tests
// pin this down.
//
// A final month whose segment would close before it opens (the
// requested end day falls earlier in the month than the anchor day) is
// dropped, and the previous segment absorbs the tail: its close is
// pulled back to the requested end. The same absorption applies to any
// trailing segment whose rolled-over anchor opens after the requested
// end. Every other segment must span at least 28 days.
func Split(start, end time.Time, rec models.Recurrence) []Segment {
	if rec != models.RecurrenceRecurring {
		return []Segment{{Start: start, End: end}}
	}

	anchorDay := start.Day()
	firstMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var segments []Segment
	for month := firstMonth; !month.After(lastMonth); month = month.AddDate(0, 1, 0) {
		segStart := time.Date(month.Year(), month.Month(), anchorDay, 0, 0, 0, 0, time.UTC)
		if month.Equal(firstMonth) {
			segStart = start
		}

		final := month.Equal(lastMonth)
		var segEnd time.Time
		if final {
			segEnd = end
		} else {
			next := month.AddDate(0, 1, 0)
			segEnd = time.Date(next.Year(), next.Month(), anchorDay, 0, 0, 0, 0, time.UTC)
		}

		if segEnd.Sub(segStart) >= minSegment || (final && !segEnd.Before(segStart)) {
			segments = append(segments, Segment{Start: segStart, End: segEnd})
		}
	}

	// If the final month was dropped as a short tail, the previous
	// segment closes at the requested end instead. A rolled-over
	// anchor can also leave trailing segments that open after the
	// requested end; those collapse the same way.
	for len(segments) > 0 && segments[len(segments)-1].Start.After(end) {
		segments = segments[:len(segments)-1]
	}
	if len(segments) > 0 {
		segments[len(segments)-1].End = end
	}

	return segments
}
