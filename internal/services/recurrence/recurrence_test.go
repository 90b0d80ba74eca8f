package recurrence

import (
	"testing"
	"time"

	"renovest/internal/apperr"
	"renovest/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitOneTimePassthrough(t *testing.T) {
	start := date(2024, time.March, 16)
	end := date(2024, time.January, 15) // end before start on purpose

	segs := Split(start, end, models.RecurrenceOneTime)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if !segs[0].Start.Equal(start) || !segs[0].End.Equal(end) {
		t.Fatalf("one-time segment must pass through unchanged, got %+v", segs[0])
	}
}

func TestSplitThreeMonths(t *testing.T) {
	// The canonical case: 2024-01-15 .. 2024-03-16 yields three
	// segments anchored on the 15th, the last closing at the
	// requested end, not at the next anchor.
	segs := Split(date(2024, time.January, 15), date(2024, time.March, 16), models.RecurrenceRecurring)

	want := []Segment{
		{Start: date(2024, time.January, 15), End: date(2024, time.February, 15)},
		{Start: date(2024, time.February, 15), End: date(2024, time.March, 15)},
		{Start: date(2024, time.March, 15), End: date(2024, time.March, 16)},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if !segs[i].Start.Equal(want[i].Start) || !segs[i].End.Equal(want[i].End) {
			t.Errorf("segment %d: got [%s, %s], want [%s, %s]", i,
				segs[i].Start.Format("2006-01-02"), segs[i].End.Format("2006-01-02"),
				want[i].Start.Format("2006-01-02"), want[i].End.Format("2006-01-02"))
		}
	}
}

func TestSplitShortTailMergesIntoPriorSegment(t *testing.T) {
	// End on the 10th, before the anchor day 15: the March segment
	// would close before it opens, so it is dropped and February's
	// segment closes at the requested end.
	segs := Split(date(2024, time.January, 15), date(2024, time.March, 10), models.RecurrenceRecurring)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	last := segs[len(segs)-1]
	if !last.Start.Equal(date(2024, time.February, 15)) {
		t.Errorf("last segment start = %s, want 2024-02-15", last.Start.Format("2006-01-02"))
	}
	if !last.End.Equal(date(2024, time.March, 10)) {
		t.Errorf("last segment end = %s, want 2024-03-10", last.End.Format("2006-01-02"))
	}
}

func TestSplitSingleMonth(t *testing.T) {
	segs := Split(date(2024, time.January, 15), date(2024, time.January, 20), models.RecurrenceRecurring)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if !segs[0].Start.Equal(date(2024, time.January, 15)) || !segs[0].End.Equal(date(2024, time.January, 20)) {
		t.Fatalf("got %+v", segs[0])
	}
}

func TestSplitAnchorDayRollsOverShortMonths(t *testing.T) {
	// Anchor day 31 does not exist in February; the date normalizes
	// forward, so February 2024 opens on 2024-03-02 (leap year).
	segs := Split(date(2024, time.January, 31), date(2024, time.March, 31), models.RecurrenceRecurring)

	want := []Segment{
		{Start: date(2024, time.January, 31), End: date(2024, time.March, 2)},
		{Start: date(2024, time.March, 2), End: date(2024, time.March, 31)},
		{Start: date(2024, time.March, 31), End: date(2024, time.March, 31)},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if !segs[i].Start.Equal(want[i].Start) || !segs[i].End.Equal(want[i].End) {
			t.Errorf("segment %d: got [%s, %s], want [%s, %s]", i,
				segs[i].Start.Format("2006-01-02"), segs[i].End.Format("2006-01-02"),
				want[i].Start.Format("2006-01-02"), want[i].End.Format("2006-01-02"))
		}
	}
}

func TestSplitAnchorRollsPastRequestedEnd(t *testing.T) {
	// Anchor day 31 in February normalizes to 2024-03-02, which is
	// after the requested end. Both the final month's segment and the
	// rolled-over February segment collapse into January's, and its
	// close is pulled back to the requested end. Nothing inverted,
	// nothing past the end may survive.
	segs := Split(date(2024, time.January, 31), date(2024, time.March, 1), models.RecurrenceRecurring)

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %+v", len(segs), segs)
	}
	if !segs[0].Start.Equal(date(2024, time.January, 31)) {
		t.Errorf("segment start = %s, want 2024-01-31", segs[0].Start.Format("2006-01-02"))
	}
	if !segs[0].End.Equal(date(2024, time.March, 1)) {
		t.Errorf("segment end = %s, want 2024-03-01", segs[0].End.Format("2006-01-02"))
	}
	for i, seg := range segs {
		if seg.End.Before(seg.Start) {
			t.Errorf("segment %d inverted: [%s, %s]", i,
				seg.Start.Format("2006-01-02"), seg.End.Format("2006-01-02"))
		}
	}
}

func TestSplitSegmentsAreContiguousAndCoverRange(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"year on the first", date(2023, time.February, 1), date(2024, time.January, 31)},
		{"mid-month anchor", date(2024, time.January, 15), date(2024, time.December, 16)},
		{"anchor 28 across february", date(2024, time.January, 28), date(2024, time.April, 28)},
		{"short tail", date(2024, time.May, 20), date(2024, time.September, 3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segs := Split(tc.start, tc.end, models.RecurrenceRecurring)
			if len(segs) == 0 {
				t.Fatal("expected at least one segment")
			}
			if !segs[0].Start.Equal(tc.start) {
				t.Errorf("first segment starts at %s, want %s", segs[0].Start, tc.start)
			}
			if !segs[len(segs)-1].End.Equal(tc.end) {
				t.Errorf("last segment ends at %s, want %s", segs[len(segs)-1].End, tc.end)
			}
			for i := 1; i < len(segs); i++ {
				if !segs[i].Start.Equal(segs[i-1].End) {
					t.Errorf("segment %d starts at %s but segment %d ends at %s", i, segs[i].Start, i-1, segs[i-1].End)
				}
				if !segs[i].Start.After(segs[i-1].Start) {
					t.Errorf("segment starts not strictly increasing at index %d", i)
				}
			}
			// Only the last segment may span fewer than 28 days.
			for i := 0; i < len(segs)-1; i++ {
				if segs[i].End.Sub(segs[i].Start) < minSegment {
					t.Errorf("segment %d shorter than 28 days: [%s, %s]", i, segs[i].Start, segs[i].End)
				}
			}
		})
	}
}

func TestValidateDates(t *testing.T) {
	start := date(2024, time.March, 16)
	end := date(2024, time.January, 15)

	err := ValidateDates(models.TransactionTypeRevenue, start, &end)
	if err == nil {
		t.Fatal("expected validation error for revenue ending before start")
	}
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	// Expenses and open-ended ranges are deliberately not checked.
	if err := ValidateDates(models.TransactionTypeExpense, start, &end); err != nil {
		t.Errorf("expense should not be validated, got %v", err)
	}
	if err := ValidateDates(models.TransactionTypeRevenue, start, nil); err != nil {
		t.Errorf("open-ended revenue should pass, got %v", err)
	}
	ok := date(2024, time.April, 1)
	if err := ValidateDates(models.TransactionTypeRevenue, start, &ok); err != nil {
		t.Errorf("well-ordered revenue range should pass, got %v", err)
	}
}
