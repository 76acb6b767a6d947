package motivation

import (
	"context"
	"strings"
	"testing"
)

// fixedStatic returns a static provider that always picks index 0, making
// message selection deterministic.
func fixedStatic() *Static {
	return &Static{pick: func(int) int { return 0 }}
}

func TestStatic_QuoteForNonMilestone(t *testing.T) {
	s := NewStatic()
	msg, err := s.Message(context.Background(), Request{UserName: "alex", Habit: "jog", Streak: 5})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	found := false
	for _, q := range quotes {
		if msg == q {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("message %q not from the quote pool", msg)
	}
}

func TestStatic_MilestoneUsesMatchingTier(t *testing.T) {
	s := fixedStatic()
	msg, err := s.Message(context.Background(), Request{Habit: "jog", Streak: 3, Milestone: true})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if !strings.Contains(msg, "3-day streak") {
		t.Errorf("message %q should come from the 3-day tier", msg)
	}
}

func TestStatic_TenDayMilestoneTier(t *testing.T) {
	s := fixedStatic()
	msg, err := s.Message(context.Background(), Request{Habit: "jog", Streak: 10, Milestone: true})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if !strings.Contains(msg, "10 consecutive days") {
		t.Errorf("message %q should come from the 10-day tier", msg)
	}
}

func TestStatic_ZeroStreakNeverTier(t *testing.T) {
	s := fixedStatic()
	msg, _ := s.Message(context.Background(), Request{Habit: "jog", Streak: 0, Milestone: true})
	if msg != quotes[0] {
		t.Errorf("zero streak should fall back to the quote pool, got %q", msg)
	}
}

func TestTierFor_RangeSelection(t *testing.T) {
	cases := []struct {
		streak int
		want   int // expected tier min
	}{
		{1, 1}, {2, 1}, {3, 3}, {5, 3}, {7, 7}, {9, 7}, {10, 10}, {30, 10},
	}
	for _, c := range cases {
		got := tierFor(c.streak)
		var want []string
		for _, tr := range tiers {
			if tr.min == c.want {
				want = tr.messages
			}
		}
		if &got[0] != &want[0] {
			t.Errorf("tierFor(%d) picked wrong tier, want min %d", c.streak, c.want)
		}
	}
}
