package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabday/pkg/models"
)

var day = models.NewLocalDate(2024, time.March, 10)

func sampleSelection() *models.DailySelection {
	return &models.DailySelection{
		NewWords: []models.LearningProgress{
			{Word: "abide", Category: "verbs", CreatedDate: day, NextReviewDate: day, Status: models.StatusNew},
		},
		ReviewWords: []models.LearningProgress{
			{Word: "break the ice", Category: "idioms", IsLearned: true, ReviewCount: 2, NextReviewDate: day, Status: models.StatusDue},
		},
		TotalCount: 2,
		Severity:   models.SeverityLight,
		Date:       day,
	}
}

func TestKVStoreProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(NewMemoryKV(), "")

	missing, err := store.GetProgress(ctx, "abide::verbs")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := models.LearningProgress{Word: "abide", Category: "verbs", IsLearned: true, ReviewCount: 3, NextReviewDate: day.AddDays(7), Status: models.StatusNotDue}
	require.NoError(t, store.SetProgress(ctx, record.Key(), record))
	require.NoError(t, store.SetProgress(ctx, "other::verbs", models.LearningProgress{Word: "other", Category: "verbs"}))

	got, err := store.GetProgress(ctx, record.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, *got)

	all, err := store.AllProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestKVStoreLayout(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewKVStore(kv, "")

	require.NoError(t, store.SetProgress(ctx, "abide::verbs", models.LearningProgress{Word: "abide", Category: "verbs"}))
	require.NoError(t, store.SetTodaySelectionCache(ctx, day, sampleSelection()))

	raw, found, _ := kv.Get(ctx, "learningProgress")
	require.True(t, found)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "abide", doc["abide::verbs"]["word"])

	raw, found, _ = kv.Get(ctx, "dailySelection:2024-03-10")
	require.True(t, found)
	assert.Contains(t, raw, `"date":"2024-03-10"`)
	assert.Contains(t, raw, `"severity":"light"`)
}

func TestKVStoreNamespaces(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	alice := NewKVStore(kv, UserNamespace(1))
	bob := NewKVStore(kv, UserNamespace(2))

	require.NoError(t, alice.SetTodaySelectionCache(ctx, day, sampleSelection()))

	sel, err := bob.GetTodaySelectionCache(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, sel)

	sel, err = alice.GetTodaySelectionCache(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, sampleSelection(), sel)

	_, found, _ := kv.Get(ctx, "user:1:dailySelection:2024-03-10")
	assert.True(t, found)
}

func TestKVStoreRejectsCorruptSelections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bad json", raw: `{"newWords": [`},
		{name: "unknown severity", raw: `{"newWords":[],"reviewWords":[],"totalCount":0,"severity":"extreme","date":"2024-03-10"}`},
		{name: "missing severity", raw: `{"newWords":[],"reviewWords":[],"totalCount":0,"date":"2024-03-10"}`},
		{name: "wrong date", raw: `{"newWords":[],"reviewWords":[],"totalCount":0,"severity":"light","date":"2024-03-09"}`},
		{name: "missing date", raw: `{"newWords":[],"reviewWords":[],"totalCount":0,"severity":"light"}`},
		{name: "count mismatch", raw: `{"newWords":[{"word":"a"}],"reviewWords":[],"totalCount":3,"severity":"light","date":"2024-03-10"}`},
		{name: "word without text", raw: `{"newWords":[{"word":""}],"reviewWords":[],"totalCount":1,"severity":"light","date":"2024-03-10"}`},
		{name: "negative review count", raw: `{"newWords":[],"reviewWords":[{"word":"a","reviewCount":-1}],"totalCount":1,"severity":"light","date":"2024-03-10"}`},
		{name: "bad status", raw: `{"newWords":[{"word":"a","status":"zombie"}],"reviewWords":[],"totalCount":1,"severity":"light","date":"2024-03-10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, SelectionKey(day), tt.raw))

			sel, err := NewKVStore(kv, "").GetTodaySelectionCache(ctx, day)
			assert.Nil(t, sel)
			assert.ErrorIs(t, err, ErrCorruptSelection)
		})
	}
}

func TestKVStoreSkipsUnreadableProgressRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ProgressKey, `{
		"abide::verbs": {"word":"abide","category":"verbs","isLearned":true,"reviewCount":2,"nextReviewDate":"2024-03-12T00:00:00.000Z"},
		"broken::verbs": {"word":"broken","nextReviewDate":"not a date"}
	}`))

	all, err := NewKVStore(kv, "").AllProgress(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-03-12", all["abide::verbs"].NextReviewDate.String())
}

func TestKVStoreKeepsOtherRecordsOnWrite(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ProgressKey, `{
		"abide::verbs": {"word":"abide","category":"verbs","isLearned":true,"reviewCount":3,"nextReviewDate":"2024-03-09","status":"learning"},
		"broken::verbs": {"word":"broken","nextReviewDate":"not a date"}
	}`))
	store := NewKVStore(kv, "")

	all, err := store.AllProgress(ctx)
	require.NoError(t, err)
	require.Contains(t, all, "abide::verbs")
	assert.True(t, all["abide::verbs"].IsLearned)

	require.NoError(t, store.SetProgress(ctx, "cast::verbs", models.LearningProgress{Word: "cast", Category: "verbs"}))

	raw, _, err := kv.Get(ctx, ProgressKey)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Len(t, doc, 3)
	assert.Equal(t, "not a date", doc["broken::verbs"]["nextReviewDate"])
	assert.Equal(t, float64(3), doc["abide::verbs"]["reviewCount"])
}

func TestKVStoreRecoversFromCorruptProgressDocument(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ProgressKey, `[1,2,3]`))
	store := NewKVStore(kv, "")

	_, err := store.AllProgress(ctx)
	assert.ErrorIs(t, err, ErrCorruptProgress)

	require.NoError(t, store.SetProgress(ctx, "abide::verbs", models.LearningProgress{Word: "abide", Category: "verbs"}))
	all, err := store.AllProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
