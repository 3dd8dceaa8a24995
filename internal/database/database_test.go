package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabday/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectCreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vocabday.db")
	db, err := Connect("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	tables := []string{"words", "users", "kv_store"}
	for _, table := range tables {
		var name string
		err := db.Get(&name, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		assert.NoError(t, err, "table %s not found", table)
	}
}

func TestConnectRejectsUnknownType(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	assert.Error(t, err)
}

func TestKVRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(openTestDB(t))

	_, found, err := repo.Get(ctx, "learningProgress")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "learningProgress", `{"a::b":{}}`))
	require.NoError(t, repo.Set(ctx, "learningProgress", `{}`))

	v, found, err := repo.Get(ctx, "learningProgress")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{}`, v)

	require.NoError(t, repo.Delete(ctx, "learningProgress"))
	_, found, err = repo.Get(ctx, "learningProgress")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVRepositoryDeleteOlderSelections(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepository(openTestDB(t))

	for _, key := range []string{
		"user:1:dailySelection:2024-03-08",
		"user:1:dailySelection:2024-03-10",
		"dailySelection:2024-03-09",
		"user:1:learningProgress",
	} {
		require.NoError(t, repo.Set(ctx, key, "{}"))
	}

	n, err := repo.DeleteOlderSelections(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, found, _ := repo.Get(ctx, "user:1:dailySelection:2024-03-10")
	assert.True(t, found)
	_, found, _ = repo.Get(ctx, "user:1:learningProgress")
	assert.True(t, found)
}

func TestWordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(openTestDB(t))

	words := []models.Word{
		{Word: "abide", Category: "verbs", Meaning: "to accept"},
		{Word: "break the ice", Category: "idioms", Meaning: "to start a conversation"},
		{Word: "Abide", Category: "idioms", Meaning: "made up"},
	}
	for i := range words {
		created, err := repo.Upsert(ctx, &words[i])
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, words[i].ID)
	}

	update := models.Word{Word: "abide", Category: "verbs", Meaning: "to tolerate", Example: "I can't abide liars."}
	created, err := repo.Upsert(ctx, &update)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, words[0].ID, update.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "abide", all[0].Word, "insertion order must be kept")
	assert.Equal(t, "to tolerate", all[0].Meaning)

	found, err := repo.FindByText(ctx, "ABIDE")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	idioms, err := repo.GetByCategory(ctx, "idioms")
	require.NoError(t, err)
	assert.Len(t, idioms, 2)

	missing, err := repo.Get(ctx, "nope", "verbs")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, words[1].ID))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	user := &models.User{ChatID: 42, Username: "ada", Severity: models.SeverityLight, NotificationsEnabled: true, NotificationHour: 9}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Create(ctx, &models.User{ChatID: 7, Username: "bob", Severity: models.SeverityIntense, NotificationHour: 9}))

	require.NoError(t, repo.UpdateSeverity(ctx, 42, models.SeverityModerate))
	// registering again keeps settings
	require.NoError(t, repo.Create(ctx, &models.User{ChatID: 42, Username: "ada_l", Severity: models.SeverityLight}))

	got, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ada_l", got.Username)
	assert.Equal(t, models.SeverityModerate, got.Severity)

	due, err := repo.GetUsersForNotification(ctx, 9)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(42), due[0].ChatID)

	require.NoError(t, repo.UpdateNotifications(ctx, 42, true, 20))
	due, err = repo.GetUsersForNotification(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, 7))
	missing, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
