package motivation

import (
	"context"
	"fmt"
	"math/rand"
)

// quotes is a small pool of general encouragements used when no generative
// provider is available.
var quotes = []string{
	"Every journey begins with a single step.",
	"Success is the sum of small efforts, repeated day in and day out.",
	"Don't watch the clock; do what it does. Keep going.",
	"The secret of getting ahead is getting started.",
	"Keep pushing forward. Your hard work will pay off.",
	"Discipline is choosing between what you want now and what you want most.",
	"Little by little, a little becomes a lot.",
}

// tier is a streak range with its own message pool. Milestone check-ins
// draw from the tier matching the streak so a 3-day milestone reads
// differently from a 10-day one.
type tier struct {
	min      int
	messages []string
}

// tiers must stay sorted by ascending min.
var tiers = []tier{
	{min: 1, messages: []string{
		"Day %d. The hardest part is showing up, and you did.",
		"%d day in. Keep the chain going.",
	}},
	{min: 3, messages: []string{
		"You've hit a %d-day streak! Amazing discipline!",
		"%d days straight. This is how habits are built.",
	}},
	{min: 7, messages: []string{
		"A full week and beyond: %d days! Outstanding!",
		"%d days in a row. You're making this part of who you are.",
	}},
	{min: 10, messages: []string{
		"%d consecutive days. At this point it's not luck, it's you.",
		"Double digits: a %d-day streak! Incredible consistency!",
	}},
}

// Static is the deterministic fallback provider backed by fixed tables.
type Static struct {
	pick func(n int) int
}

// NewStatic creates a static provider with random message selection.
func NewStatic() *Static {
	return &Static{pick: rand.Intn}
}

// Message returns a canned encouragement. Milestone requests draw from the
// tier matching the streak; everything else gets a quote from the general
// pool. It never fails.
func (s *Static) Message(_ context.Context, req Request) (string, error) {
	if req.Milestone && req.Streak > 0 {
		msgs := tierFor(req.Streak)
		return fmt.Sprintf(msgs[s.pick(len(msgs))], req.Streak), nil
	}
	return quotes[s.pick(len(quotes))], nil
}

// tierFor returns the message pool of the highest tier whose min does not
// exceed the streak.
func tierFor(streak int) []string {
	msgs := tiers[0].messages
	for _, t := range tiers {
		if streak >= t.min {
			msgs = t.messages
		}
	}
	return msgs
}
