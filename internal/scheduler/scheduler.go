package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron"

	"github.com/example/vocabday/internal/daily"
	"github.com/example/vocabday/pkg/models"
)

// Defaults for notification settings
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultPrebuildAt            = "00:05"
	DefaultRetainDays            = 7
)

// Notifier sends a user the reminder for today's list
type Notifier interface {
	SendReminder(ctx context.Context, chatID int64, selection *models.DailySelection) error
}

// UserSource lists the users to act on
type UserSource interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error)
}

// WordSource returns the vocabulary
type WordSource interface {
	GetAll(ctx context.Context) ([]models.Word, error)
}

// SelectionCleaner drops cached daily selections older than a date
type SelectionCleaner interface {
	DeleteOlderSelections(ctx context.Context, before string) (int64, error)
}

// Config holds the schedule
type Config struct {
	Location   *time.Location
	StartHour  int
	EndHour    int
	PrebuildAt string // HH:MM
	RetainDays int
	Now        func() time.Time
	Logger     *log.Logger
}

// DefaultConfig returns the default schedule in UTC
func DefaultConfig() Config {
	return Config{
		Location:   time.UTC,
		StartHour:  DefaultNotificationStartHour,
		EndHour:    DefaultNotificationEndHour,
		PrebuildAt: DefaultPrebuildAt,
		RetainDays: DefaultRetainDays,
		Now:        time.Now,
		Logger:     log.Default(),
	}
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     UserSource
	words     WordSource
	sessions  *daily.Manager
	cleaner   SelectionCleaner
	cfg       Config
}

// New creates a new scheduler instance. cleaner may be nil.
func New(cfg Config, sessions *daily.Manager, users UserSource, words WordSource, notifier Notifier, cleaner SelectionCleaner) *Scheduler {
	def := DefaultConfig()
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.PrebuildAt == "" {
		cfg.PrebuildAt = def.PrebuildAt
	}
	if cfg.RetainDays <= 0 {
		cfg.RetainDays = def.RetainDays
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(cfg.Location),
		notifier:  notifier,
		users:     users,
		words:     words,
		sessions:  sessions,
		cleaner:   cleaner,
		cfg:       cfg,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start(ctx context.Context) error {
	// Reminders go out at the top of every hour
	if _, err := s.scheduler.Cron("0 * * * *").Do(func() {
		s.CheckAndSendReminders(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	if _, err := s.scheduler.Every(1).Day().At(s.cfg.PrebuildAt).Do(func() {
		s.Prebuild(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule prebuild: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.cfg.Logger.Info("scheduler started", "reminders", fmt.Sprintf("%02d-%02d", s.cfg.StartHour, s.cfg.EndHour),
		"prebuild", s.cfg.PrebuildAt, "tz", s.cfg.Location)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Jobs reports how many jobs are registered
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

// CheckAndSendReminders reminds the users whose notification hour is now.
// It returns the number of reminders sent.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) int {
	now := s.cfg.Now().In(s.cfg.Location)
	currentHour := now.Hour()

	if currentHour < s.cfg.StartHour || currentHour > s.cfg.EndHour {
		s.cfg.Logger.Debug("outside notification hours, skipping reminders",
			"hour", currentHour, "start", s.cfg.StartHour, "end", s.cfg.EndHour)
		return 0
	}

	users, err := s.users.GetUsersForNotification(ctx, currentHour)
	if err != nil {
		s.cfg.Logger.Error("failed to get users for notification", "err", err)
		return 0
	}
	if len(users) == 0 {
		return 0
	}

	words, err := s.words.GetAll(ctx)
	if err != nil {
		s.cfg.Logger.Error("failed to load vocabulary", "err", err)
		return 0
	}

	sent := 0
	for _, user := range users {
		ok, err := s.remind(ctx, now, user, words)
		if err != nil {
			s.cfg.Logger.Error("failed to send reminder", "chat_id", user.ChatID, "err", err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

// RunManualCheck sends the reminder to one user right away
func (s *Scheduler) RunManualCheck(ctx context.Context, user models.User) error {
	words, err := s.words.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	_, err = s.remind(ctx, s.cfg.Now(), user, words)
	return err
}

func (s *Scheduler) remind(ctx context.Context, now time.Time, user models.User, words []models.Word) (bool, error) {
	sel, err := s.sessions.For(user.ChatID).Today(ctx, now, user.Severity, words)
	if err != nil {
		return false, err
	}
	if sel.TotalCount == 0 {
		return false, nil
	}
	if err := s.notifier.SendReminder(ctx, user.ChatID, sel); err != nil {
		return false, err
	}
	return true, nil
}

// Prebuild builds today's selection for every user so their first request is a cache hit,
// then drops selections older than RetainDays.
func (s *Scheduler) Prebuild(ctx context.Context) {
	now := s.cfg.Now().In(s.cfg.Location)

	users, err := s.users.GetAll(ctx)
	if err != nil {
		s.cfg.Logger.Error("failed to get users for prebuild", "err", err)
		return
	}
	words, err := s.words.GetAll(ctx)
	if err != nil {
		s.cfg.Logger.Error("failed to load vocabulary", "err", err)
		return
	}

	built := 0
	for _, user := range users {
		if _, err := s.sessions.For(user.ChatID).Today(ctx, now, user.Severity, words); err != nil {
			s.cfg.Logger.Warn("failed to prebuild daily selection", "chat_id", user.ChatID, "err", err)
			continue
		}
		built++
	}
	s.cfg.Logger.Info("daily selections prebuilt", "users", built, "date", models.DateOf(now))

	if s.cleaner == nil {
		return
	}
	before := models.DateOf(now).AddDays(-s.cfg.RetainDays)
	removed, err := s.cleaner.DeleteOlderSelections(ctx, before.String())
	if err != nil {
		s.cfg.Logger.Warn("failed to clean old selections", "err", err)
		return
	}
	if removed > 0 {
		s.cfg.Logger.Debug("old selections removed", "count", removed, "before", before)
	}
}
