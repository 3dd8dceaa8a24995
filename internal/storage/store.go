// Package storage is the persistence boundary of the scheduler.
// The daily builder only sees Store; how keys end up on disk is decided here.
package storage

import (
	"context"
	"errors"

	"github.com/example/vocabday/pkg/models"
)

// Keys of the persisted layout
const (
	ProgressKey        = "learningProgress"
	SelectionKeyPrefix = "dailySelection:"
)

var (
	// ErrCorruptSelection is returned when a cached daily selection cannot be trusted
	ErrCorruptSelection = errors.New("storage: corrupt daily selection")
	// ErrCorruptProgress is returned when the progress map cannot be decoded
	ErrCorruptProgress = errors.New("storage: corrupt learning progress")
)

// Store is what the daily builder needs from persistence.
// Missing records are reported as nil with a nil error.
type Store interface {
	GetProgress(ctx context.Context, key string) (*models.LearningProgress, error)
	SetProgress(ctx context.Context, key string, record models.LearningProgress) error
	AllProgress(ctx context.Context) (map[string]models.LearningProgress, error)
	GetTodaySelectionCache(ctx context.Context, date models.LocalDate) (*models.DailySelection, error)
	SetTodaySelectionCache(ctx context.Context, date models.LocalDate, selection *models.DailySelection) error
}

// KeyValue is a plain string store. found is false for a missing key.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SelectionKey returns the cache key for a day
func SelectionKey(date models.LocalDate) string {
	return SelectionKeyPrefix + date.String()
}
