package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabday/internal/daily"
	"github.com/example/vocabday/pkg/models"
)

// Sender is the part of the Telegram API the bot talks to; *tgbotapi.BotAPI implements it
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UserStore persists users and their settings
type UserStore interface {
	GetByID(ctx context.Context, chatID int64) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateSeverity(ctx context.Context, chatID int64, severity models.Severity) error
	UpdateNotifications(ctx context.Context, chatID int64, enabled bool, hour int) error
}

// WordSource returns the vocabulary in insertion order
type WordSource interface {
	GetAll(ctx context.Context) ([]models.Word, error)
}

// Config represents the configuration for the bot
type Config struct {
	DefaultSeverity         models.Severity
	DefaultNotificationHour int
	AdminUserIDs            []int64
	Now                     func() time.Time
	Logger                  *log.Logger
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		DefaultSeverity:         models.SeverityLight,
		DefaultNotificationHour: 9,
		Now:                     time.Now,
		Logger:                  log.Default(),
	}
}

// Bot represents the Telegram bot application
type Bot struct {
	api          Sender
	users        UserStore
	words        WordSource
	sessions     *daily.Manager
	cfg          Config
	adminUserIDs map[int64]bool
}

// NewAPI connects to Telegram with token
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

// New creates a new bot instance
func New(api Sender, users UserStore, words WordSource, sessions *daily.Manager, cfg Config) *Bot {
	def := DefaultConfig()
	if cfg.DefaultSeverity.Rank() < 0 {
		cfg.DefaultSeverity = def.DefaultSeverity
	}
	if cfg.DefaultNotificationHour <= 0 || cfg.DefaultNotificationHour > 23 {
		cfg.DefaultNotificationHour = def.DefaultNotificationHour
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	admins := make(map[int64]bool, len(cfg.AdminUserIDs))
	for _, id := range cfg.AdminUserIDs {
		admins[id] = true
	}

	return &Bot{
		api:          api,
		users:        users,
		words:        words,
		sessions:     sessions,
		cfg:          cfg,
		adminUserIDs: admins,
	}
}

// Run handles updates until ctx is cancelled or the channel is closed
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	b.cfg.Logger.Info("bot started, waiting for updates")
	for {
		select {
		case <-ctx.Done():
			b.cfg.Logger.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate handles incoming updates from Telegram
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.HandleCommand(ctx, update.Message)
	case update.Message != nil:
		err = b.sendText(update.Message.Chat.ID, "I don't understand. Use /help to see the commands.", MainMenuButtons())
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.cfg.Logger.Error("failed to handle update", "update_id", update.UpdateID, "err", err)
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(_ context.Context, chatID int64, sel *models.DailySelection) error {
	text := fmt.Sprintf("⏰ You have %d words for today: %d to review and %d new. Tap Today to start.",
		sel.TotalCount, len(sel.ReviewWords), len(sel.NewWords))
	if err := b.sendText(chatID, text, MainMenuButtons()); err != nil {
		return fmt.Errorf("failed to send reminder to %d: %w", chatID, err)
	}
	b.cfg.Logger.Debug("reminder sent", "chat_id", chatID, "words", sel.TotalCount)
	return nil
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

func (b *Bot) now() time.Time {
	return b.cfg.Now()
}

func (b *Bot) sendText(chatID int64, text string, buttons [][]MenuButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	return b.sendMessage(msg)
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	_, err := b.api.Send(msg)
	return err
}
