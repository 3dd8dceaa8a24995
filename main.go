package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/example/vocabday/internal/cli"
	"github.com/example/vocabday/internal/config"
	"github.com/example/vocabday/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Optional .env file." default:".env" type:"path"`
	Debug   bool   `help:"Verbose logging."`
	Memory  bool   `help:"Keep learning progress in memory only."`

	Serve    cli.ServeCmd    `cmd:"" help:"Run the Telegram bot and the reminder scheduler." default:"1"`
	Import   cli.ImportCmd   `cmd:"" help:"Import words from an .xlsx or .csv file."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's words."`
	Learned  cli.LearnedCmd  `cmd:"" help:"Mark a word as learned."`
	Reset    cli.ResetCmd    `cmd:"" help:"Start a word over."`
	Severity cli.SeverityCmd `cmd:"" help:"Change the daily workload."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show learning progress."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("vocabday"),
		kong.Description("Daily vocabulary with spaced repetition"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	log, err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("configuration loaded", "db_type", cfg.DBType, "timezone", cfg.Timezone, "severity", cfg.DefaultSeverity)
	if CLI.Memory {
		logger.Warn("progress is kept in memory and lost on exit")
	}

	appCtx, err := cli.Open(cfg, CLI.Memory, log)
	if err != nil {
		logger.Fatal("failed to open database", "err", err)
	}
	defer appCtx.Close()

	logger.Info("running command", "command", kctx.Command())
	if err := kctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "err", err)
		appCtx.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
