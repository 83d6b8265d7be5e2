package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestEndDate(t *testing.T) {
	tests := []struct {
		name     string
		cal      Calendar
		start    time.Time
		duration int
		want     time.Time
	}{
		{"zero duration", Calendar{}, Date(2025, 1, 1), 0, Date(2025, 1, 1)},
		{"one day", Calendar{}, Date(2025, 1, 1), 1, Date(2025, 1, 1)},
		{"within week", Calendar{}, Date(2025, 1, 1), 3, Date(2025, 1, 3)},
		{"across weekend", Calendar{}, Date(2025, 1, 1), 4, Date(2025, 1, 6)},
		{"saturday start", Calendar{}, Date(2025, 2, 1), 5, Date(2025, 2, 7)},
		{"zero duration on weekend", Calendar{}, Date(2025, 2, 1), 0, Date(2025, 2, 1)},
		{"include weekends", Calendar{IncludeWeekends: true}, Date(2025, 1, 1), 4, Date(2025, 1, 4)},
		{
			"holiday skipped",
			Calendar{Holidays: []time.Time{Date(2025, 1, 2)}},
			Date(2025, 1, 1), 3, Date(2025, 1, 6),
		},
		{
			"six day week",
			Calendar{WorkingDays: WorkWeek{time.Monday: true, time.Tuesday: true, time.Wednesday: true, time.Thursday: true, time.Friday: true, time.Saturday: true}},
			Date(2025, 1, 1), 4, Date(2025, 1, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cal.EndDate(tt.start, tt.duration)
			if err != nil {
				t.Fatalf("EndDate unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("EndDate(%s, %d) = %s, want %s", Format(tt.start), tt.duration, Format(got), Format(tt.want))
			}
		})
	}
}

func TestEndDateRejectsNegativeDuration(t *testing.T) {
	_, err := Calendar{}.EndDate(Date(2025, 1, 1), -1)
	if !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
}

func TestEndDateDropsTimeOfDay(t *testing.T) {
	start := time.Date(2025, 1, 1, 17, 30, 0, 0, time.UTC)
	got, err := Calendar{}.EndDate(start, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Date(2025, 1, 1)) {
		t.Fatalf("expected midnight date, got %s", got)
	}
}

func TestShift(t *testing.T) {
	cal := Calendar{}
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"zero keeps weekend", Date(2025, 1, 4), 0, Date(2025, 1, 4)},
		{"friday plus one", Date(2025, 1, 3), 1, Date(2025, 1, 6)},
		{"friday plus three", Date(2025, 1, 3), 3, Date(2025, 1, 8)},
		{"monday minus one", Date(2025, 1, 6), -1, Date(2025, 1, 3)},
		{"saturday plus one", Date(2025, 1, 4), 1, Date(2025, 1, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.Shift(tt.from, tt.n); !got.Equal(tt.want) {
				t.Errorf("Shift(%s, %d) = %s, want %s", Format(tt.from), tt.n, Format(got), Format(tt.want))
			}
		})
	}
}

func TestStartForEndInvertsEndDate(t *testing.T) {
	cal := Calendar{}
	end := Date(2025, 1, 8)
	for duration := 0; duration <= 7; duration++ {
		start := cal.StartForEnd(end, duration)
		got, err := cal.EndDate(start, duration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(end) {
			t.Errorf("duration %d: start %s ends %s, want %s", duration, Format(start), Format(got), Format(end))
		}
	}
}

func TestParseWorkWeek(t *testing.T) {
	week, err := ParseWorkWeek([]string{"Mon", "tuesday", " sat "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := WorkWeek{time.Monday: true, time.Tuesday: true, time.Saturday: true}
	if week != want {
		t.Fatalf("ParseWorkWeek = %v, want %v", week, want)
	}

	week, err = ParseWorkWeek(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if week != DefaultWorkWeek {
		t.Fatalf("expected default week, got %v", week)
	}

	if _, err := ParseWorkWeek([]string{"someday"}); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestZeroCalendarUsesDefaultWeek(t *testing.T) {
	if (Calendar{}).Week() != DefaultWorkWeek {
		t.Fatal("expected zero calendar to use the default week")
	}
	if (Calendar{}).IsWorkingDay(Date(2025, 1, 4)) {
		t.Fatal("expected Saturday to be a non-working day")
	}
}

func TestParseAndFormat(t *testing.T) {
	got, err := Parse(" 2025-02-01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Date(2025, 2, 1)) {
		t.Fatalf("Parse = %s", got)
	}
	if Format(got) != "2025-02-01" {
		t.Fatalf("Format = %q", Format(got))
	}
	if Format(time.Time{}) != "" {
		t.Fatal("expected empty format for zero time")
	}
	if _, err := Parse("2025-13-01"); err == nil {
		t.Fatal("expected error for invalid month")
	}
}
