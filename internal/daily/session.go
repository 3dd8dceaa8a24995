// Package daily builds and maintains the list of words a user works through each day.
package daily

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/vocabday/internal/spaced_repetition"
	"github.com/example/vocabday/internal/storage"
	"github.com/example/vocabday/pkg/models"
)

// ErrUnknownWord is returned when a word is not part of the vocabulary
var ErrUnknownWord = errors.New("daily: unknown word")

// Config holds the scheduling knobs of a Session
type Config struct {
	Policy   *spaced_repetition.Policy
	Ranges   spaced_repetition.SeverityRanges
	Location *time.Location
	Logger   *log.Logger
}

// DefaultConfig returns the shipped intervals and tiers in the local time zone
func DefaultConfig() Config {
	return Config{
		Policy:   spaced_repetition.NewPolicy(),
		Ranges:   spaced_repetition.DefaultSeverityRanges(),
		Location: time.Local,
		Logger:   log.Default(),
	}
}

// Session owns one user's daily selection. All methods are safe for concurrent use.
type Session struct {
	store  storage.Store
	policy *spaced_repetition.Policy
	ranges spaced_repetition.SeverityRanges
	loc    *time.Location
	logger *log.Logger

	mu sync.Mutex
	// pending is today's selection when it could not be written to the store
	pending *models.DailySelection
}

// NewSession creates a session over store. Unset fields of cfg take their defaults.
func NewSession(store storage.Store, cfg Config) *Session {
	def := DefaultConfig()
	if cfg.Policy == nil {
		cfg.Policy = def.Policy
	}
	if cfg.Ranges == nil {
		cfg.Ranges = def.Ranges
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return &Session{
		store:  store,
		policy: cfg.Policy,
		ranges: cfg.Ranges,
		loc:    cfg.Location,
		logger: cfg.Logger,
	}
}

// Date returns the calendar day now falls on in the session's time zone
func (s *Session) Date(now time.Time) models.LocalDate {
	return models.DateOf(now.In(s.loc))
}

// Today returns the selection for the day of now, building it on the first call of the day.
// Later calls with the same severity return the same selection. A lighter severity trims the
// current selection, a heavier one rebuilds it. The returned value is a copy.
func (s *Session) Today(ctx context.Context, now time.Time, severity models.Severity, words []models.Word) (*models.DailySelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Date(now)
	if severity.Rank() < 0 {
		s.logger.Warn("unknown severity, using light", "severity", severity)
		severity = models.SeverityLight
	}

	current := s.current(ctx, today)
	switch {
	case current == nil:
		return s.build(ctx, today, severity, words), nil
	case current.Severity == severity:
		return current.Clone(), nil
	case severity.Lighter(current.Severity):
		trimmed := Shrink(current, s.ranges.Range(severity), severity, today)
		s.save(ctx, trimmed)
		s.logger.Debug("daily selection trimmed", "date", today, "from", current.Severity, "to", severity,
			"total", trimmed.TotalCount)
		return trimmed.Clone(), nil
	default:
		s.logger.Debug("daily selection rebuilt for heavier severity", "date", today, "from", current.Severity, "to", severity)
		return s.build(ctx, today, severity, words), nil
	}
}

// ChangeSeverity applies a new tier to today's selection
func (s *Session) ChangeSeverity(ctx context.Context, now time.Time, severity models.Severity, words []models.Word) (*models.DailySelection, error) {
	if _, err := models.ParseSeverity(string(severity)); err != nil {
		return nil, err
	}
	return s.Today(ctx, now, severity, words)
}

// MarkLearned records a successful review, schedules the next one and takes the word off
// today's list. It returns the updated record. A failed progress write is logged and the
// word still leaves today's list.
func (s *Session) MarkLearned(ctx context.Context, now time.Time, word, category string) (models.LearningProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Date(now)
	p, err := s.progress(ctx, word, category, today)
	if err != nil {
		return models.LearningProgress{}, err
	}
	s.policy.MarkReviewed(&p, today)
	s.saveProgress(ctx, p)

	if sel := s.current(ctx, today); sel != nil && sel.Remove(word, category) {
		s.save(ctx, sel)
	}
	return p, nil
}

// MarkPlayed notes that the word was shown today. Its schedule is unchanged.
func (s *Session) MarkPlayed(ctx context.Context, now time.Time, word, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Date(now)
	p, err := s.progress(ctx, word, category, today)
	if err != nil {
		return err
	}
	spaced_repetition.MarkPlayed(&p, today)
	s.saveProgress(ctx, p)

	sel := s.current(ctx, today)
	if sel == nil {
		return nil
	}
	touched := false
	for _, list := range [][]models.LearningProgress{sel.NewWords, sel.ReviewWords} {
		for i := range list {
			if list[i].Matches(word, category) {
				list[i].LastPlayedDate = today
				touched = true
			}
		}
	}
	if touched {
		s.save(ctx, sel)
	}
	return nil
}

// MarkAsNew puts the word back to the start of the cycle. Today's list is not changed.
func (s *Session) MarkAsNew(ctx context.Context, now time.Time, word, category string) (models.LearningProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Date(now)
	p, err := s.progress(ctx, word, category, today)
	if err != nil {
		return models.LearningProgress{}, err
	}
	spaced_repetition.ResetToNew(&p, today)
	s.saveProgress(ctx, p)
	return p, nil
}

// Stats summarizes the vocabulary as of the day of now
func (s *Session) Stats(ctx context.Context, now time.Time, words []models.Word) (spaced_repetition.Stats, error) {
	progress, err := s.store.AllProgress(ctx)
	if err != nil {
		return spaced_repetition.Stats{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return spaced_repetition.Summarize(words, progress, s.Date(now)), nil
}

// build classifies the vocabulary and assembles a fresh selection.
// A selection built without progress is returned but not cached.
func (s *Session) build(ctx context.Context, today models.LocalDate, severity models.Severity, words []models.Word) *models.DailySelection {
	progress, err := s.store.AllProgress(ctx)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("failed to load progress, building without history", "err", err)
		progress = make(map[string]models.LearningProgress)
	}

	c := spaced_repetition.Classify(words, progress, today)
	target := s.ranges.Range(severity).NewWordTarget(len(c.Due))
	picked := spaced_repetition.SelectNewWordsByCategory(c.New, target)

	newWords := make([]models.LearningProgress, 0, len(picked))
	for _, w := range picked {
		p, ok := progress[w.Key()]
		if !ok || !p.Matches(w.Word, w.Category) {
			p = spaced_repetition.NewProgress(w, today)
		}
		spaced_repetition.Refresh(&p, today)
		newWords = append(newWords, p)
	}

	sel := &models.DailySelection{
		NewWords:    newWords,
		ReviewWords: c.Due,
		Severity:    severity,
		Date:        today,
	}
	sel.Recount()

	s.logger.Debug("daily selection built", "date", today, "severity", severity,
		"new", len(sel.NewWords), "review", len(sel.ReviewWords))

	if cacheable {
		s.save(ctx, sel)
	}
	return sel.Clone()
}

// current returns today's selection from memory or the store, nil on a miss.
// Read errors and corrupt documents count as a miss.
func (s *Session) current(ctx context.Context, today models.LocalDate) *models.DailySelection {
	if s.pending != nil {
		if s.pending.Date.Equal(today) {
			return s.pending.Clone()
		}
		s.pending = nil
	}

	sel, err := s.store.GetTodaySelectionCache(ctx, today)
	if err != nil {
		if errors.Is(err, storage.ErrCorruptSelection) {
			s.logger.Warn("discarding corrupt daily selection", "date", today, "err", err)
		} else {
			s.logger.Warn("failed to read daily selection", "date", today, "err", err)
		}
		return nil
	}
	return sel
}

func (s *Session) save(ctx context.Context, sel *models.DailySelection) {
	if err := s.store.SetTodaySelectionCache(ctx, sel.Date, sel); err != nil {
		s.logger.Warn("failed to save daily selection, keeping it in memory", "date", sel.Date, "err", err)
		s.pending = sel.Clone()
		return
	}
	s.pending = nil
}

func (s *Session) saveProgress(ctx context.Context, p models.LearningProgress) {
	if err := s.store.SetProgress(ctx, p.Key(), p); err != nil {
		s.logger.Warn("failed to save progress", "word", p.Key(), "err", err)
	}
}

func (s *Session) progress(ctx context.Context, word, category string, today models.LocalDate) (models.LearningProgress, error) {
	if strings.TrimSpace(word) == "" {
		return models.LearningProgress{}, fmt.Errorf("%w: empty word", ErrUnknownWord)
	}
	p, err := s.store.GetProgress(ctx, models.ProgressKey(word, category))
	if err != nil {
		return models.LearningProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	if p == nil || !p.Matches(word, category) {
		return spaced_repetition.NewProgress(models.Word{Word: word, Category: category}, today), nil
	}
	return *p, nil
}

// FindWords returns the vocabulary entries spelled like text, case-insensitively.
// A word may exist in several categories.
func FindWords(words []models.Word, text string) ([]models.Word, error) {
	text = strings.TrimSpace(text)
	var found []models.Word
	for _, w := range words {
		if strings.EqualFold(w.Word, text) {
			found = append(found, w)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, text)
	}
	return found, nil
}
