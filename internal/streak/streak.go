// Package streak computes consecutive-day completion streaks and milestone
// status from a habit's check-in history. The engine is pure: it never
// touches storage and is total over well-formed input.
package streak

import (
	"sort"
	"time"

	"github.com/starford/uruz/internal/models"
)

// DefaultMilestones is the default set of celebrated streak lengths.
var DefaultMilestones = []int{3, 7, 10}

// Result is the outcome of a streak computation.
type Result struct {
	// Current is the number of consecutive completed days ending at the
	// most recent completed day. It is 0 when a full calendar day has been
	// missed since the last completion.
	Current int
	// IsMilestone reports whether Current exactly equals one of the
	// configured thresholds. A streak of 8 with thresholds {3,7,10} is not
	// a milestone.
	IsMilestone bool
	// LastCompleted is the most recent completed day, zero if none.
	LastCompleted time.Time
}

// Engine computes streaks against a configured set of milestone thresholds.
type Engine struct {
	milestones []int
}

// New creates an engine with the given ascending milestone thresholds.
// Non-positive thresholds are dropped; an empty set falls back to
// DefaultMilestones.
func New(milestones []int) *Engine {
	ms := make([]int, 0, len(milestones))
	for _, m := range milestones {
		if m > 0 {
			ms = append(ms, m)
		}
	}
	if len(ms) == 0 {
		ms = append(ms, DefaultMilestones...)
	}
	sort.Ints(ms)
	return &Engine{milestones: ms}
}

// Compute walks backward from the most recent completed day counting
// consecutive completions. Inputs are treated as calendar days; duplicates
// collapse and order is irrelevant.
//
// A streak survives for one day without a completion: when the latest
// completed day is today or yesterday the run still counts, and once a full
// calendar day has been missed the streak reports 0.
func (e *Engine) Compute(completed []time.Time, today time.Time) Result {
	days := dedupeDays(completed)
	if len(days) == 0 {
		return Result{}
	}

	latest := days[0]
	res := Result{LastCompleted: latest}

	if models.Day(today).Sub(latest) >= 48*time.Hour {
		return res
	}

	for i, day := range days {
		if !day.Equal(latest.AddDate(0, 0, -i)) {
			break
		}
		res.Current++
	}
	res.IsMilestone = e.isMilestone(res.Current)
	return res
}

func (e *Engine) isMilestone(n int) bool {
	for _, m := range e.milestones {
		if n == m {
			return true
		}
	}
	return false
}

// dedupeDays normalizes to calendar days, removes duplicates, and sorts
// most recent first.
func dedupeDays(ts []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(ts))
	days := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		d := models.Day(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
