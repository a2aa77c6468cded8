package core

import "testing"

func TestSeedDays_SevenConsecutiveDays(t *testing.T) {
	start := NewDate(2024, 6, 3) // a Monday

	days := SeedDays(42, start)
	if len(days) != DaysPerWeek {
		t.Fatalf("expected %d days, got %d", DaysPerWeek, len(days))
	}

	want := []string{
		"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06",
		"2024-06-07", "2024-06-08", "2024-06-09",
	}
	for i, d := range days {
		if d.Date.String() != want[i] {
			t.Errorf("day %d date = %s, want %s", i, d.Date, want[i])
		}
		if d.WeekPlanID != 42 {
			t.Errorf("day %d week_plan_id = %d, want 42", i, d.WeekPlanID)
		}
		if d.Menu != nil {
			t.Errorf("day %d menu = %q, want nil", i, *d.Menu)
		}
		if d.RSVP != 0 {
			t.Errorf("day %d rsvp = %d, want 0", i, d.RSVP)
		}
	}
}

func TestSeedDays_CrossesMonthBoundary(t *testing.T) {
	days := SeedDays(1, NewDate(2024, 1, 29))
	if got := days[6].Date.String(); got != "2024-02-04" {
		t.Errorf("last day = %s, want 2024-02-04", got)
	}
}

func TestSeedDays_CrossesYearBoundary(t *testing.T) {
	days := SeedDays(1, NewDate(2024, 12, 30))
	if got := days[2].Date.String(); got != "2025-01-01" {
		t.Errorf("third day = %s, want 2025-01-01", got)
	}
}
