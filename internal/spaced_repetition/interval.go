package spaced_repetition

import "github.com/example/vocabday/pkg/models"

// Policy maps a successful-review count to the number of days until the next review.
// The first len(Intervals) reviews follow the table, later ones repeat RepeatInterval.
type Policy struct {
	// Escalating intervals in days for reviews 1..N
	Intervals []int
	// Interval in days once the table is exhausted
	RepeatInterval int
}

// NewPolicy returns the policy the app ships with
func NewPolicy() *Policy {
	return &Policy{
		Intervals:      []int{1, 3, 7, 14, 21, 30, 45, 60},
		RepeatInterval: 20,
	}
}

var defaultPolicy = NewPolicy()

// NextIntervalDays returns the interval for reviewCount using the default policy
func NextIntervalDays(reviewCount int) int {
	return defaultPolicy.NextIntervalDays(reviewCount)
}

// NextIntervalDays never fails: counts below 1 are treated as 1 and the result is at least one day.
func (p *Policy) NextIntervalDays(reviewCount int) int {
	if reviewCount < 1 {
		reviewCount = 1
	}

	days := p.RepeatInterval
	if reviewCount <= len(p.Intervals) {
		days = p.Intervals[reviewCount-1]
	}

	if days < 1 {
		return 1
	}
	return days
}

// AddIntervalDays moves base forward by days on the calendar
func AddIntervalDays(base models.LocalDate, days int) models.LocalDate {
	return base.AddDays(days)
}
