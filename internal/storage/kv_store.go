package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/example/vocabday/pkg/models"
)

// KVStore keeps the scheduler's state as JSON documents in a KeyValue backend.
//
//	learningProgress           -> {"word::category": LearningProgress, ...}
//	dailySelection:YYYY-MM-DD  -> DailySelection
//
// Every key is prefixed with Namespace so several users can share one backend.
type KVStore struct {
	kv        KeyValue
	namespace string
	validate  *validator.Validate
}

// NewKVStore creates a store over kv. namespace may be empty.
func NewKVStore(kv KeyValue, namespace string) *KVStore {
	return &KVStore{
		kv:        kv,
		namespace: namespace,
		validate:  validator.New(),
	}
}

// UserNamespace is the key prefix used for one bot user
func UserNamespace(chatID int64) string {
	return fmt.Sprintf("user:%d:", chatID)
}

func (s *KVStore) key(k string) string {
	return s.namespace + k
}

// AllProgress returns every record, keyed by word::category.
// A record that cannot be decoded is left out of the result but stays in the store.
func (s *KVStore) AllProgress(ctx context.Context) (map[string]models.LearningProgress, error) {
	records, err := s.progressDocument(ctx)
	if err != nil {
		return nil, err
	}
	progress := make(map[string]models.LearningProgress, len(records))
	for key, data := range records {
		var p models.LearningProgress
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		progress[key] = p
	}
	return progress, nil
}

// progressDocument returns the raw records of the progress document
func (s *KVStore) progressDocument(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, found, err := s.kv.Get(ctx, s.key(ProgressKey))
	if err != nil {
		return nil, fmt.Errorf("failed to read learning progress: %w", err)
	}
	records := make(map[string]json.RawMessage)
	if !found || raw == "" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptProgress, err)
	}
	return records, nil
}

// GetProgress returns the record stored under key, or nil
func (s *KVStore) GetProgress(ctx context.Context, key string) (*models.LearningProgress, error) {
	all, err := s.AllProgress(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := all[key]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SetProgress writes one record. Other records are written back as they were read.
// A corrupt progress document is replaced rather than kept.
func (s *KVStore) SetProgress(ctx context.Context, key string, record models.LearningProgress) error {
	records, err := s.progressDocument(ctx)
	if err != nil {
		if !isCorrupt(err) {
			return err
		}
		records = make(map[string]json.RawMessage)
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode progress for %s: %w", key, err)
	}
	records[key] = encoded

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode learning progress: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(ProgressKey), string(data)); err != nil {
		return fmt.Errorf("failed to save learning progress: %w", err)
	}
	return nil
}

// GetTodaySelectionCache returns the cached selection for date, nil when there is none.
// Undecodable or inconsistent documents yield ErrCorruptSelection.
func (s *KVStore) GetTodaySelectionCache(ctx context.Context, date models.LocalDate) (*models.DailySelection, error) {
	raw, found, err := s.kv.Get(ctx, s.key(SelectionKey(date)))
	if err != nil {
		return nil, fmt.Errorf("failed to read daily selection: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var sel models.DailySelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSelection, err)
	}
	if err := s.checkSelection(&sel, date); err != nil {
		return nil, err
	}
	return &sel, nil
}

// SetTodaySelectionCache stores selection under its date
func (s *KVStore) SetTodaySelectionCache(ctx context.Context, date models.LocalDate, selection *models.DailySelection) error {
	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to encode daily selection: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(SelectionKey(date)), string(data)); err != nil {
		return fmt.Errorf("failed to save daily selection: %w", err)
	}
	return nil
}

func (s *KVStore) checkSelection(sel *models.DailySelection, date models.LocalDate) error {
	if err := s.validate.Struct(sel); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSelection, err)
	}
	if !sel.Date.Equal(date) {
		return fmt.Errorf("%w: stored for %q, requested %q", ErrCorruptSelection, sel.Date, date)
	}
	if sel.TotalCount != len(sel.NewWords)+len(sel.ReviewWords) {
		return fmt.Errorf("%w: totalCount %d does not match %d words",
			ErrCorruptSelection, sel.TotalCount, len(sel.NewWords)+len(sel.ReviewWords))
	}
	return nil
}

func isCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptProgress) || errors.Is(err, ErrCorruptSelection)
}
