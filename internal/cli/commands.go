package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabday/internal/bot"
	"github.com/example/vocabday/internal/excel"
	"github.com/example/vocabday/internal/scheduler"
	"github.com/example/vocabday/pkg/models"
)

// ServeCmd runs the Telegram bot and the scheduler
type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	api, err := bot.NewAPI(ctx.Config.TelegramBotToken)
	if err != nil {
		return err
	}
	ctx.Logger.Info("authorized on account", "username", api.Self.UserName)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.New(api, ctx.Users, ctx.Words, ctx.Sessions, bot.Config{
		DefaultSeverity: ctx.Config.DefaultSeverity,
		AdminUserIDs:    ctx.Config.AdminUserIDs,
		Now:             ctx.Now,
		Logger:          ctx.Logger,
	})

	sched := scheduler.New(scheduler.Config{
		Location:   ctx.Config.Location(),
		StartHour:  ctx.Config.NotificationStartHour,
		EndHour:    ctx.Config.NotificationEndHour,
		PrebuildAt: ctx.Config.PrebuildAt,
		Now:        ctx.Now,
		Logger:     ctx.Logger,
	}, ctx.Sessions, ctx.Users, ctx.Words, b, ctx.KV)
	if err := sched.Start(runCtx); err != nil {
		return err
	}
	defer sched.Stop()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	b.Run(runCtx, updates)
	return nil
}

// ImportCmd loads words from a spreadsheet
type ImportCmd struct {
	File     string `arg:"" help:"Path to an .xlsx or .csv file." type:"existingfile"`
	Sheet    string `help:"Sheet to read (xlsx only). Defaults to the first sheet."`
	StartRow int    `help:"First data row, 1-based." default:"2"`
	Category string `help:"Category for rows that name none." default:"General"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	cfg := excel.DefaultImportConfig()
	cfg.FilePath = c.File
	cfg.SheetName = c.Sheet
	cfg.StartRow = c.StartRow
	cfg.DefaultCategory = c.Category

	result, err := excel.ImportWords(context.Background(), ctx.Words, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Processed %d rows: %d created, %d updated, %d skipped\n",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(ctx.Out, "  %s\n", e)
	}
	ctx.Logger.Info("vocabulary imported", "file", c.File, "created", result.Created, "updated", result.Updated)
	return nil
}

// TodayCmd prints today's list
type TodayCmd struct {
	Chat     int64  `help:"Chat ID to act as." default:"0"`
	Severity string `help:"Workload tier for this run (light, moderate, intense)."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	bg := context.Background()
	severity, err := ctx.severity(bg, c.Chat)
	if err != nil {
		return err
	}
	if c.Severity != "" {
		if severity, err = models.ParseSeverity(c.Severity); err != nil {
			return err
		}
	}

	words, err := ctx.Words.GetAll(bg)
	if err != nil {
		return err
	}
	sel, err := ctx.Sessions.For(c.Chat).Today(bg, ctx.Now(), severity, words)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s (%s): %d words\n", sel.Date, sel.Severity, sel.TotalCount)
	printList(ctx, "Review", sel.ReviewWords)
	printList(ctx, "New", sel.NewWords)
	return nil
}

func printList(ctx *Context, title string, list []models.LearningProgress) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(ctx.Out, "\n%s:\n", title)
	for _, p := range list {
		fmt.Fprintf(ctx.Out, "  %-24s %s\n", p.Word, p.Category)
	}
}

// LearnedCmd marks a word as learned
type LearnedCmd struct {
	Word     string `arg:"" help:"Word to mark."`
	Category string `help:"Category, when the word exists in several."`
	Chat     int64  `help:"Chat ID to act as." default:"0"`
}

func (c *LearnedCmd) Run(ctx *Context) error {
	bg := context.Background()
	word, err := ctx.resolveWord(bg, c.Word, c.Category)
	if err != nil {
		return err
	}
	p, err := ctx.Sessions.For(c.Chat).MarkLearned(bg, ctx.Now(), word.Word, word.Category)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s [%s] learned, review #%d due %s\n", p.Word, p.Category, p.ReviewCount, p.NextReviewDate)
	return nil
}

// ResetCmd puts a word back to new
type ResetCmd struct {
	Word     string `arg:"" help:"Word to reset."`
	Category string `help:"Category, when the word exists in several."`
	Chat     int64  `help:"Chat ID to act as." default:"0"`
}

func (c *ResetCmd) Run(ctx *Context) error {
	bg := context.Background()
	word, err := ctx.resolveWord(bg, c.Word, c.Category)
	if err != nil {
		return err
	}
	if _, err := ctx.Sessions.For(c.Chat).MarkAsNew(bg, ctx.Now(), word.Word, word.Category); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s [%s] is new again\n", word.Word, word.Category)
	return nil
}

// SeverityCmd changes the daily workload
type SeverityCmd struct {
	Tier string `arg:"" help:"light, moderate or intense."`
	Chat int64  `help:"Chat ID to act as." default:"0"`
}

func (c *SeverityCmd) Run(ctx *Context) error {
	bg := context.Background()
	severity, err := models.ParseSeverity(c.Tier)
	if err != nil {
		return err
	}

	user := &models.User{
		ChatID:               c.Chat,
		Severity:             severity,
		NotificationsEnabled: false,
		NotificationHour:     ctx.Config.NotificationStartHour,
	}
	if err := ctx.Users.Create(bg, user); err != nil {
		return err
	}
	if err := ctx.Users.UpdateSeverity(bg, c.Chat, severity); err != nil {
		return err
	}

	words, err := ctx.Words.GetAll(bg)
	if err != nil {
		return err
	}
	sel, err := ctx.Sessions.For(c.Chat).ChangeSeverity(bg, ctx.Now(), severity, words)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Severity set to %s: %d review, %d new\n", severity, len(sel.ReviewWords), len(sel.NewWords))
	return nil
}

// StatsCmd prints progress per category
type StatsCmd struct {
	Chat int64 `help:"Chat ID to act as." default:"0"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	bg := context.Background()
	words, err := ctx.Words.GetAll(bg)
	if err != nil {
		return err
	}
	stats, err := ctx.Sessions.For(c.Chat).Stats(bg, ctx.Now(), words)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Words: %d  new: %d  due: %d  scheduled: %d  reviews: %d\n",
		stats.TotalWords, stats.NewWords, stats.DueToday, stats.NotDue, stats.TotalReview)
	for _, cs := range stats.Categories {
		fmt.Fprintf(ctx.Out, "  %-20s %3d/%-3d %5.1f%%\n", cs.Category, cs.Learned, cs.Total, cs.CompletionPercentage())
	}
	return nil
}
