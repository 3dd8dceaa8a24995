package spaced_repetition

import "github.com/example/vocabday/pkg/models"

// SelectNewWordsByCategory picks up to targetCount words, one per category per pass.
// Categories take turns in the order they first appear in candidates, and words
// inside a category keep their order. When targetCount is at least the number of
// categories every category contributes a word.
func SelectNewWordsByCategory(candidates []models.Word, targetCount int) []models.Word {
	if targetCount <= 0 || len(candidates) == 0 {
		return make([]models.Word, 0)
	}

	var order []string
	groups := make(map[string][]models.Word)
	for _, w := range candidates {
		if _, ok := groups[w.Category]; !ok {
			order = append(order, w.Category)
		}
		groups[w.Category] = append(groups[w.Category], w)
	}

	limit := targetCount
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make([]models.Word, 0, limit)
	for pass := 0; len(selected) < limit; pass++ {
		for _, category := range order {
			group := groups[category]
			if pass >= len(group) {
				continue
			}
			selected = append(selected, group[pass])
			if len(selected) == limit {
				break
			}
		}
	}

	return selected
}
