package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabday/pkg/models"
)

var today = models.NewLocalDate(2024, time.March, 10)

func learned(word, category string, next models.LocalDate) models.LearningProgress {
	return models.LearningProgress{
		Word:           word,
		Category:       category,
		IsLearned:      true,
		ReviewCount:    1,
		NextReviewDate: next,
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		p    models.LearningProgress
		want models.Status
	}{
		{name: "not learned is new regardless of dates", p: models.LearningProgress{NextReviewDate: today.AddDays(-30)}, want: models.StatusNew},
		{name: "due yesterday", p: learned("a", "x", today.AddDays(-1)), want: models.StatusDue},
		{name: "due today", p: learned("a", "x", today), want: models.StatusDue},
		{name: "due tomorrow", p: learned("a", "x", today.AddDays(1)), want: models.StatusNotDue},
		{name: "learned without a date", p: learned("a", "x", models.LocalDate{}), want: models.StatusDue},
		{name: "stale cached status is ignored", p: models.LearningProgress{IsLearned: true, NextReviewDate: today.AddDays(3), Status: models.StatusLearned}, want: models.StatusNotDue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.p, today))
		})
	}
}

func TestMarkReviewed(t *testing.T) {
	pol := NewPolicy()
	p := NewProgress(models.Word{Word: "ubiquitous", Category: "adjectives"}, today)
	assert.Equal(t, models.StatusNew, p.Status)

	pol.MarkReviewed(&p, today)
	assert.True(t, p.IsLearned)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, "2024-03-11", p.NextReviewDate.String())
	assert.Equal(t, today, p.LastPlayedDate)
	assert.Equal(t, models.StatusNotDue, p.Status)

	next := p.NextReviewDate
	pol.MarkReviewed(&p, next)
	assert.Equal(t, 2, p.ReviewCount)
	assert.Equal(t, "2024-03-14", p.NextReviewDate.String())
}

func TestMarkReviewedFixesNegativeCount(t *testing.T) {
	p := models.LearningProgress{Word: "a", ReviewCount: -4}
	NewPolicy().MarkReviewed(&p, today)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, today, p.CreatedDate)
}

func TestResetToNew(t *testing.T) {
	p := learned("a", "x", today.AddDays(20))
	p.ReviewCount = 6

	ResetToNew(&p, today)
	assert.False(t, p.IsLearned)
	assert.Zero(t, p.ReviewCount)
	assert.Equal(t, models.StatusNew, p.Status)
}

func TestMarkPlayedKeepsSchedule(t *testing.T) {
	p := learned("a", "x", today.AddDays(4))
	MarkPlayed(&p, today)
	assert.Equal(t, today, p.LastPlayedDate)
	assert.Equal(t, today.AddDays(4), p.NextReviewDate)
	assert.Equal(t, 1, p.ReviewCount)
}
