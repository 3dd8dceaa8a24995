package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabday/internal/config"
	"github.com/example/vocabday/internal/daily"
	"github.com/example/vocabday/internal/spaced_repetition"
	"github.com/example/vocabday/pkg/models"
)

func newContext(t *testing.T, memory bool) (*Context, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		DBType:                "sqlite",
		DBDSN:                 ":memory:",
		Timezone:              "UTC",
		DefaultSeverity:       models.SeverityLight,
		Severity:              spaced_repetition.DefaultSeverityRanges(),
		NotificationStartHour: 8,
		NotificationEndHour:   22,
		PrebuildAt:            "00:05",
	}
	require.NoError(t, cfg.Validate())

	ctx, err := Open(cfg, memory, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })

	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Now = func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) }
	return ctx, out
}

func importSample(t *testing.T, ctx *Context) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "word,meaning,example,category\n" +
		"abide,to accept,,verbs\n" +
		"run,to move fast,,verbs\n" +
		"run,a period of running,,nouns\n" +
		"break the ice,to start a conversation,,idioms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, (&ImportCmd{File: path, StartRow: 2, Category: "General"}).Run(ctx))
}

func TestImportCmd(t *testing.T) {
	ctx, out := newContext(t, false)
	importSample(t, ctx)
	assert.Contains(t, out.String(), "Processed 4 rows: 4 created, 0 updated, 0 skipped")

	n, err := ctx.Words.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTodayAndLearnedCmd(t *testing.T) {
	for _, memory := range []bool{false, true} {
		ctx, out := newContext(t, memory)
		importSample(t, ctx)

		out.Reset()
		require.NoError(t, (&TodayCmd{}).Run(ctx))
		assert.Contains(t, out.String(), "2024-03-10 (light): 4 words")

		out.Reset()
		require.NoError(t, (&LearnedCmd{Word: "abide"}).Run(ctx))
		assert.Equal(t, "abide [verbs] learned, review #1 due 2024-03-11\n", out.String())

		out.Reset()
		require.NoError(t, (&TodayCmd{}).Run(ctx))
		assert.Contains(t, out.String(), "3 words")
	}
}

func TestLearnedCmdNeedsCategoryForAmbiguousWord(t *testing.T) {
	ctx, out := newContext(t, true)
	importSample(t, ctx)

	assert.Error(t, (&LearnedCmd{Word: "run"}).Run(ctx))
	assert.ErrorIs(t, (&LearnedCmd{Word: "run", Category: "adverbs"}).Run(ctx), daily.ErrUnknownWord)
	assert.ErrorIs(t, (&LearnedCmd{Word: "swim"}).Run(ctx), daily.ErrUnknownWord)

	out.Reset()
	require.NoError(t, (&LearnedCmd{Word: "run", Category: "nouns"}).Run(ctx))
	assert.Contains(t, out.String(), "run [nouns] learned")
}

func TestResetCmd(t *testing.T) {
	ctx, out := newContext(t, true)
	importSample(t, ctx)

	require.NoError(t, (&LearnedCmd{Word: "abide"}).Run(ctx))
	out.Reset()
	require.NoError(t, (&ResetCmd{Word: "abide"}).Run(ctx))
	assert.Equal(t, "abide [verbs] is new again\n", out.String())

	out.Reset()
	require.NoError(t, (&StatsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Words: 4  new: 4")
}

func TestSeverityCmd(t *testing.T) {
	ctx, out := newContext(t, false)
	importSample(t, ctx)

	require.NoError(t, (&SeverityCmd{Tier: "moderate"}).Run(ctx))
	assert.Equal(t, "Severity set to moderate: 0 review, 4 new\n", out.String())

	severity, err := ctx.severity(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, models.SeverityModerate, severity)

	assert.Error(t, (&SeverityCmd{Tier: "extreme"}).Run(ctx))
}

func TestStatsCmd(t *testing.T) {
	ctx, out := newContext(t, true)
	importSample(t, ctx)
	require.NoError(t, (&LearnedCmd{Word: "abide"}).Run(ctx))

	out.Reset()
	require.NoError(t, (&StatsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Words: 4  new: 3  due: 0  scheduled: 1  reviews: 1")
	assert.Contains(t, out.String(), "verbs")
}
