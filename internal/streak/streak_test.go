package streak

import (
	"testing"
	"time"
)

var today = time.Date(2025, time.July, 29, 15, 4, 0, 0, time.UTC)

// days returns calendar days offset backward from today: days(0, 1, 2)
// means today, yesterday, and the day before.
func days(offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, off := range offsets {
		out[i] = today.AddDate(0, 0, -off)
	}
	return out
}

func TestCompute_NoCompletions(t *testing.T) {
	e := New(nil)
	res := e.Compute(nil, today)
	if res.Current != 0 {
		t.Errorf("Current = %d, want 0", res.Current)
	}
	if res.IsMilestone {
		t.Error("empty history should not be a milestone")
	}
	if !res.LastCompleted.IsZero() {
		t.Errorf("LastCompleted = %v, want zero", res.LastCompleted)
	}
}

func TestCompute_SingleCompletionToday(t *testing.T) {
	e := New(nil)
	res := e.Compute(days(0), today)
	if res.Current != 1 {
		t.Errorf("Current = %d, want 1", res.Current)
	}
	if res.IsMilestone {
		t.Error("1 is not a default milestone")
	}
}

func TestCompute_SingleCompletionMilestoneOne(t *testing.T) {
	e := New([]int{1})
	res := e.Compute(days(0), today)
	if res.Current != 1 || !res.IsMilestone {
		t.Errorf("got (%d, %v), want (1, true)", res.Current, res.IsMilestone)
	}
}

func TestCompute_ThreeConsecutiveDaysIsMilestone(t *testing.T) {
	e := New(nil)
	res := e.Compute(days(0, 1, 2), today)
	if res.Current != 3 {
		t.Errorf("Current = %d, want 3", res.Current)
	}
	if !res.IsMilestone {
		t.Error("3 should be a milestone with default thresholds")
	}
}

func TestCompute_GapBreaksStreak(t *testing.T) {
	e := New(nil)
	// Completed today and two days ago, but not yesterday.
	res := e.Compute(days(0, 2), today)
	if res.Current != 1 {
		t.Errorf("Current = %d, want 1", res.Current)
	}
}

func TestCompute_MilestoneEqualityIsExact(t *testing.T) {
	e := New([]int{3, 7, 10})
	res := e.Compute(days(0, 1, 2, 3, 4, 5, 6, 7), today)
	if res.Current != 8 {
		t.Fatalf("Current = %d, want 8", res.Current)
	}
	if res.IsMilestone {
		t.Error("streak 8 with thresholds {3,7,10} should not be a milestone")
	}
}

func TestCompute_LastCompletedYesterdayStillCounts(t *testing.T) {
	e := New(nil)
	// One-day grace window: no check-in yet today keeps the run alive.
	res := e.Compute(days(1, 2, 3), today)
	if res.Current != 3 {
		t.Errorf("Current = %d, want 3", res.Current)
	}
	if !res.LastCompleted.Equal(time.Date(2025, time.July, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("LastCompleted = %v", res.LastCompleted)
	}
}

func TestCompute_MissedFullDayBreaksStreak(t *testing.T) {
	e := New(nil)
	// Last completion two days ago: a full day has been missed.
	res := e.Compute(days(2, 3, 4), today)
	if res.Current != 0 {
		t.Errorf("Current = %d, want 0", res.Current)
	}
	if res.IsMilestone {
		t.Error("broken streak cannot be a milestone")
	}
	if res.LastCompleted.IsZero() {
		t.Error("LastCompleted should still report the last completion")
	}
}

func TestCompute_DuplicateDatesCollapse(t *testing.T) {
	e := New(nil)
	dup := append(days(0, 0, 1, 1, 2), days(2)...)
	res := e.Compute(dup, today)
	if res.Current != 3 {
		t.Errorf("Current = %d, want 3", res.Current)
	}
}

func TestCompute_OrderIrrelevant(t *testing.T) {
	e := New(nil)
	res := e.Compute(days(2, 0, 1), today)
	if res.Current != 3 {
		t.Errorf("Current = %d, want 3", res.Current)
	}
}

func TestCompute_TimeOfDayIgnored(t *testing.T) {
	e := New(nil)
	completed := []time.Time{
		time.Date(2025, time.July, 29, 23, 59, 0, 0, time.UTC),
		time.Date(2025, time.July, 28, 0, 1, 0, 0, time.UTC),
	}
	res := e.Compute(completed, today)
	if res.Current != 2 {
		t.Errorf("Current = %d, want 2", res.Current)
	}
}

func TestNew_DropsNonPositiveAndSorts(t *testing.T) {
	e := New([]int{7, -1, 3, 0, 10})
	for _, n := range []int{3, 7, 10} {
		if !e.isMilestone(n) {
			t.Errorf("%d should be a milestone", n)
		}
	}
	if e.isMilestone(0) || e.isMilestone(-1) {
		t.Error("non-positive thresholds should be dropped")
	}
}

func TestNew_EmptyFallsBackToDefaults(t *testing.T) {
	e := New([]int{})
	if !e.isMilestone(3) || !e.isMilestone(7) || !e.isMilestone(10) {
		t.Error("empty thresholds should fall back to defaults")
	}
}
