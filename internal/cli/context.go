package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabday/internal/config"
	"github.com/example/vocabday/internal/daily"
	"github.com/example/vocabday/internal/database"
	"github.com/example/vocabday/internal/storage"
	"github.com/example/vocabday/pkg/models"
)

// Context is shared by every command
type Context struct {
	Config   *config.Config
	DB       *sqlx.DB
	Words    *database.WordRepository
	Users    *database.UserRepository
	KV       *database.KVRepository
	Sessions *daily.Manager
	Logger   *log.Logger
	Out      io.Writer
	Now      func() time.Time
}

// Open connects to the database and wires the repositories.
// With memory set the scheduler state lives in process memory instead of the kv_store table.
func Open(cfg *config.Config, memory bool, logger *log.Logger) (*Context, error) {
	if logger == nil {
		logger = log.Default()
	}

	db, err := database.Connect(cfg.DBType, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	kvRepo := database.NewKVRepository(db)
	var kv storage.KeyValue = storage.NewBreakerKV(kvRepo, storage.DefaultBreakerConfig("kv_store"), logger)
	if memory {
		kv = storage.NewMemoryKV()
	}

	sessions := daily.NewManager(kv, daily.Config{
		Ranges:   cfg.Severity,
		Location: cfg.Location(),
		Logger:   logger,
	})

	return &Context{
		Config:   cfg,
		DB:       db,
		Words:    database.NewWordRepository(db),
		Users:    database.NewUserRepository(db),
		KV:       kvRepo,
		Sessions: sessions,
		Logger:   logger,
		Out:      os.Stdout,
		Now:      time.Now,
	}, nil
}

// Close releases the database
func (c *Context) Close() error {
	return c.DB.Close()
}

// severity returns the tier stored for chatID, or the configured default
func (c *Context) severity(ctx context.Context, chatID int64) (models.Severity, error) {
	user, err := c.Users.GetByID(ctx, chatID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return c.Config.DefaultSeverity, nil
	}
	return user.Severity, nil
}

// resolveWord finds text in the vocabulary; ambiguous words need a category
func (c *Context) resolveWord(ctx context.Context, text, category string) (models.Word, error) {
	words, err := c.Words.GetAll(ctx)
	if err != nil {
		return models.Word{}, err
	}
	matches, err := daily.FindWords(words, text)
	if err != nil {
		return models.Word{}, err
	}
	if category != "" {
		for _, m := range matches {
			if m.Category == category {
				return m, nil
			}
		}
		return models.Word{}, fmt.Errorf("%w: %q in category %q", daily.ErrUnknownWord, text, category)
	}
	if len(matches) > 1 {
		return models.Word{}, fmt.Errorf("%q exists in %d categories, pass --category", text, len(matches))
	}
	return matches[0], nil
}
