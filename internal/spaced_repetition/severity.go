package spaced_repetition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/vocabday/pkg/models"
)

// SeverityRange bounds the number of new words a tier introduces per day
type SeverityRange struct {
	Min int
	Max int
}

// SeverityRanges holds the range of every tier
type SeverityRanges map[models.Severity]SeverityRange

// DefaultSeverityRanges returns the shipped tiers
func DefaultSeverityRanges() SeverityRanges {
	return SeverityRanges{
		models.SeverityLight:    {Min: 15, Max: 25},
		models.SeverityModerate: {Min: 40, Max: 40},
		models.SeverityIntense:  {Min: 75, Max: 75},
	}
}

// Range returns the range for sev, falling back to the default table for unknown or unset tiers
func (r SeverityRanges) Range(sev models.Severity) SeverityRange {
	if rng, ok := r[sev]; ok {
		return rng
	}
	if rng, ok := DefaultSeverityRanges()[sev]; ok {
		return rng
	}
	return DefaultSeverityRanges()[models.SeverityLight]
}

// NewWordTarget resolves how many new words to introduce given the due backlog.
// Due words eat into the tier maximum but never push it below the tier minimum.
func (rng SeverityRange) NewWordTarget(dueCount int) int {
	target := rng.Max - dueCount
	if target < rng.Min {
		target = rng.Min
	}
	if target > rng.Max {
		target = rng.Max
	}
	if target < 0 {
		return 0
	}
	return target
}

// ParseSeverityRange reads "15-25" or a single number "40"
func ParseSeverityRange(s string) (SeverityRange, error) {
	s = strings.TrimSpace(s)
	loText, hiText, found := strings.Cut(s, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(loText))
	if err != nil {
		return SeverityRange{}, fmt.Errorf("invalid severity range %q: %w", s, err)
	}
	hi := lo
	if found {
		hi, err = strconv.Atoi(strings.TrimSpace(hiText))
		if err != nil {
			return SeverityRange{}, fmt.Errorf("invalid severity range %q: %w", s, err)
		}
	}
	if lo < 0 || hi < lo {
		return SeverityRange{}, fmt.Errorf("invalid severity range %q: want 0 <= min <= max", s)
	}
	return SeverityRange{Min: lo, Max: hi}, nil
}
