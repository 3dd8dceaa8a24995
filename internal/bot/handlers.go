package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabday/internal/daily"
	"github.com/example/vocabday/pkg/models"
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, message)
	case "help":
		err = b.handleHelp(message.Chat.ID)
	case "today":
		err = b.handleToday(ctx, message.Chat.ID)
	case "learned":
		err = b.handleWordCommand(ctx, message, b.markLearned)
	case "played":
		err = b.handleWordCommand(ctx, message, b.markPlayed)
	case "reset":
		err = b.handleWordCommand(ctx, message, b.markAsNew)
	case "severity":
		err = b.handleSeverity(ctx, message.Chat.ID, message.CommandArguments())
	case "stats":
		err = b.handleStats(ctx, message.Chat.ID)
	case "notify":
		err = b.handleNotify(ctx, message)
	case "admin_stats":
		err = b.handleAdminStats(ctx, message)
	default:
		err = b.sendText(message.Chat.ID, "Unknown command. Use /help to see the commands.", MainMenuButtons())
	}
	return err
}

// user returns the registered user of chatID, registering it on first contact
func (b *Bot) user(ctx context.Context, chatID int64, username string) (*models.User, error) {
	user, err := b.users.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		ChatID:               chatID,
		Username:             username,
		Severity:             b.cfg.DefaultSeverity,
		NotificationsEnabled: true,
		NotificationHour:     b.cfg.DefaultNotificationHour,
	}
	if err := b.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	b.cfg.Logger.Info("new user registered", "chat_id", chatID, "username", username)
	return user, nil
}

func username(message *tgbotapi.Message) string {
	if message.From != nil {
		return message.From.UserName
	}
	return ""
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.user(ctx, message.Chat.ID, username(message))
	if err != nil {
		return err
	}

	text := "👋 Welcome to your daily vocabulary!\n\n" +
		"Every day you get a list of words: the ones due for review plus a few new ones, " +
		"picked fairly from every category.\n\n" +
		fmt.Sprintf("Your workload is %s. Change it with /severity.\n", user.Severity) +
		"Use /today to get started."
	return b.sendText(message.Chat.ID, text, MainMenuButtons())
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "📖 Commands\n\n" +
		"/today - today's words\n" +
		"/learned <word> - mark a word as learned\n" +
		"/played <word> - note that you practised a word\n" +
		"/reset <word> - start a word over\n" +
		"/severity [light|moderate|intense] - daily workload\n" +
		"/stats - your progress\n" +
		"/notify on|off|<hour> - daily reminder\n\n" +
		"🔄 Reviews come back after 1, 3, 7, 14, 21, 30, 45 and 60 days, then every 20 days."
	return b.sendText(chatID, text, MainMenuButtons())
}

func (b *Bot) handleToday(ctx context.Context, chatID int64) error {
	user, err := b.user(ctx, chatID, "")
	if err != nil {
		return err
	}
	words, err := b.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	sel, err := b.sessions.For(chatID).Today(ctx, b.now(), user.Severity, words)
	if err != nil {
		return err
	}
	return b.sendSelection(chatID, sel, words)
}

func (b *Bot) sendSelection(chatID int64, sel *models.DailySelection, words []models.Word) error {
	vocabulary := make(map[string]models.Word, len(words))
	for _, w := range words {
		vocabulary[w.Key()] = w
	}

	texts := formatSelection(sel, vocabulary)
	for i, text := range texts {
		var buttons [][]MenuButton
		if i == len(texts)-1 {
			buttons = learnKeyboard(sel)
		}
		if err := b.sendText(chatID, text, buttons); err != nil {
			return err
		}
	}
	return nil
}

type wordAction func(ctx context.Context, chatID int64, word models.Word) (string, error)

// handleWordCommand resolves the word argument and applies action to it.
// A word that exists in several categories is resolved to the one on today's list.
func (b *Bot) handleWordCommand(ctx context.Context, message *tgbotapi.Message, action wordAction) error {
	chatID := message.Chat.ID
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return b.sendText(chatID, fmt.Sprintf("Please name the word: /%s <word>", message.Command()), nil)
	}

	words, err := b.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	matches, err := daily.FindWords(words, arg)
	if errors.Is(err, daily.ErrUnknownWord) {
		return b.sendText(chatID, fmt.Sprintf("🤔 %q is not in the vocabulary.", arg), nil)
	}
	if err != nil {
		return err
	}

	word := matches[0]
	if len(matches) > 1 {
		if user, err := b.user(ctx, chatID, username(message)); err == nil {
			if sel, err := b.sessions.For(chatID).Today(ctx, b.now(), user.Severity, words); err == nil {
				for _, m := range matches {
					if sel.Contains(m.Word, m.Category) {
						word = m
						break
					}
				}
			}
		}
	}

	reply, err := action(ctx, chatID, word)
	if err != nil {
		return err
	}
	return b.sendText(chatID, reply, nil)
}

func (b *Bot) markLearned(ctx context.Context, chatID int64, word models.Word) (string, error) {
	session := b.sessions.For(chatID)
	now := b.now()
	p, err := session.MarkLearned(ctx, now, word.Word, word.Category)
	if err != nil {
		return "", err
	}
	return formatNextReview(p, session.Date(now)), nil
}

func (b *Bot) markPlayed(ctx context.Context, chatID int64, word models.Word) (string, error) {
	if err := b.sessions.For(chatID).MarkPlayed(ctx, b.now(), word.Word, word.Category); err != nil {
		return "", err
	}
	return fmt.Sprintf("👍 %s practised today.", word.Word), nil
}

func (b *Bot) markAsNew(ctx context.Context, chatID int64, word models.Word) (string, error) {
	if _, err := b.sessions.For(chatID).MarkAsNew(ctx, b.now(), word.Word, word.Category); err != nil {
		return "", err
	}
	return fmt.Sprintf("↩️ %s starts over as a new word.", word.Word), nil
}

func (b *Bot) handleSeverity(ctx context.Context, chatID int64, arg string) error {
	user, err := b.user(ctx, chatID, "")
	if err != nil {
		return err
	}

	arg = strings.TrimSpace(arg)
	if arg == "" {
		text := fmt.Sprintf("Your workload is %s. Pick a new one:", user.Severity)
		return b.sendText(chatID, text, severityButtons(user.Severity))
	}

	severity, err := models.ParseSeverity(arg)
	if err != nil {
		return b.sendText(chatID, "Please choose light, moderate or intense.", severityButtons(user.Severity))
	}
	if err := b.users.UpdateSeverity(ctx, chatID, severity); err != nil {
		return err
	}

	words, err := b.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	sel, err := b.sessions.For(chatID).ChangeSeverity(ctx, b.now(), severity, words)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("✅ Workload set to %s. Today: %d to review, %d new.",
		severity, len(sel.ReviewWords), len(sel.NewWords))
	return b.sendText(chatID, text, MainMenuButtons())
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	words, err := b.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	stats, err := b.sessions.For(chatID).Stats(ctx, b.now(), words)
	if err != nil {
		return err
	}
	return b.sendText(chatID, formatStats(stats), MainMenuButtons())
}

func (b *Bot) handleNotify(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	usage := "Please use /notify on, /notify off or /notify <hour 0-23>"

	args := strings.ToLower(strings.TrimSpace(message.CommandArguments()))
	if args == "" {
		return b.sendText(chatID, usage, nil)
	}

	user, err := b.user(ctx, chatID, username(message))
	if err != nil {
		return err
	}

	enabled, hour := user.NotificationsEnabled, user.NotificationHour
	switch args {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		h, err := strconv.Atoi(args)
		if err != nil || h < 0 || h > 23 {
			return b.sendText(chatID, usage, nil)
		}
		enabled, hour = true, h
	}

	if err := b.users.UpdateNotifications(ctx, chatID, enabled, hour); err != nil {
		return err
	}

	text := "🔕 Reminders are off"
	if enabled {
		text = fmt.Sprintf("🔔 Reminders are on at %02d:00", hour)
	}
	return b.sendText(chatID, text, nil)
}

func (b *Bot) handleAdminStats(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || !b.isAdmin(message.From.ID) {
		return b.sendText(message.Chat.ID, "This command is only available for administrators.", nil)
	}

	users, err := b.users.GetAll(ctx)
	if err != nil {
		return err
	}
	words, err := b.words.GetAll(ctx)
	if err != nil {
		return err
	}

	categories := make(map[string]bool)
	for _, w := range words {
		categories[w.Category] = true
	}
	text := fmt.Sprintf("👥 Users: %d\n📚 Words: %d in %d categories", len(users), len(words), len(categories))
	return b.sendText(message.Chat.ID, text, nil)
}

// HandleCallback handles inline button presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.cfg.Logger.Warn("failed to answer callback", "err", err)
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data
	switch {
	case data == callbackToday:
		return b.handleToday(ctx, chatID)
	case data == callbackStats:
		return b.handleStats(ctx, chatID)
	case data == callbackHelp:
		return b.handleHelp(chatID)
	case strings.HasPrefix(data, callbackSeverity):
		return b.handleSeverity(ctx, chatID, strings.TrimPrefix(data, callbackSeverity))
	case strings.HasPrefix(data, callbackLearn):
		return b.handleLearnCallback(ctx, chatID, data)
	}
	return b.sendText(chatID, "⚠️ Unknown action", nil)
}

func (b *Bot) handleLearnCallback(ctx context.Context, chatID int64, data string) error {
	date, hash, err := parseLearnCallback(data)
	if err != nil {
		return b.sendText(chatID, "⚠️ Unknown action", nil)
	}

	session := b.sessions.For(chatID)
	now := b.now()
	if !date.Equal(session.Date(now)) {
		return b.sendText(chatID, "This list is from an earlier day. Use /today for the current one.", nil)
	}

	user, err := b.user(ctx, chatID, "")
	if err != nil {
		return err
	}
	words, err := b.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	sel, err := session.Today(ctx, now, user.Severity, words)
	if err != nil {
		return err
	}

	p, ok := findByHash(sel, hash)
	if !ok {
		return b.sendText(chatID, "Already done ✅", nil)
	}
	updated, err := session.MarkLearned(ctx, now, p.Word, p.Category)
	if err != nil {
		return err
	}
	return b.sendText(chatID, formatNextReview(updated, session.Date(now)), nil)
}
