package spaced_repetition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabday/pkg/models"
)

func countByCategory(words []models.Word) map[string]int {
	counts := make(map[string]int)
	for _, w := range words {
		counts[w.Category]++
	}
	return counts
}

func TestSelectNewWordsByCategoryFairness(t *testing.T) {
	// A words first, then B, then C: "take first N" would starve B and C
	var candidates []models.Word
	for _, c := range []string{"A", "B", "C"} {
		candidates = append(candidates, vocabulary(5, c)...)
	}

	got := SelectNewWordsByCategory(candidates, 6)

	assert.Len(t, got, 6)
	counts := countByCategory(got)
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 2}, counts)
}

func TestSelectNewWordsByCategoryRoundRobinOrder(t *testing.T) {
	candidates := []models.Word{
		{Word: "a1", Category: "A"}, {Word: "a2", Category: "A"}, {Word: "a3", Category: "A"},
		{Word: "b1", Category: "B"},
		{Word: "c1", Category: "C"}, {Word: "c2", Category: "C"},
	}

	got := SelectNewWordsByCategory(candidates, 5)

	var names []string
	for _, w := range got {
		names = append(names, w.Word)
	}
	assert.Equal(t, []string{"a1", "b1", "c1", "a2", "c2"}, names)
}

func TestSelectNewWordsByCategoryBounds(t *testing.T) {
	candidates := vocabulary(2, "A", "B")

	tests := []struct {
		name   string
		target int
		want   int
	}{
		{name: "zero target", target: 0, want: 0},
		{name: "negative target", target: -3, want: 0},
		{name: "fewer than categories", target: 1, want: 1},
		{name: "exact", target: 4, want: 4},
		{name: "more than candidates", target: 40, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectNewWordsByCategory(candidates, tt.target)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
		})
	}
}

func TestSelectNewWordsByCategoryEveryCategoryRepresented(t *testing.T) {
	candidates := append(vocabulary(20, "grammar"), vocabulary(1, "idioms", "phrasal", "slang")...)
	got := SelectNewWordsByCategory(candidates, 4)

	counts := countByCategory(got)
	for _, c := range []string{"grammar", "idioms", "phrasal", "slang"} {
		assert.Equal(t, 1, counts[c], c)
	}
}

func TestSelectNewWordsByCategoryEmpty(t *testing.T) {
	assert.Empty(t, SelectNewWordsByCategory(nil, 10))
}
