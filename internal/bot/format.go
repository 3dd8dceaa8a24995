package bot

import (
	"fmt"
	"hash/fnv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabday/internal/spaced_repetition"
	"github.com/example/vocabday/pkg/models"
)

const (
	// Telegram rejects messages longer than 4096 characters
	maxMessageLen = 4000
	// Telegram allows up to 100 inline buttons; keep the keyboard readable
	maxLearnButtons = 40

	callbackToday    = "today"
	callbackStats    = "stats"
	callbackHelp     = "help"
	callbackSeverity = "severity:"
	callbackLearn    = "learn:"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// MainMenuButtons returns the buttons shown under most replies
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Today", CallbackData: callbackToday}, {Text: "📊 Stats", CallbackData: callbackStats}},
		{{Text: "⚙️ Severity", CallbackData: callbackSeverity}, {Text: "❓ Help", CallbackData: callbackHelp}},
	}
}

func severityButtons(current models.Severity) [][]MenuButton {
	row := make([]MenuButton, 0, len(models.Severities))
	for _, sev := range models.Severities {
		text := string(sev)
		if sev == current {
			text = "• " + text
		}
		row = append(row, MenuButton{Text: text, CallbackData: callbackSeverity + string(sev)})
	}
	return [][]MenuButton{row}
}

// learnCallbackData fits a word into the 64-byte callback limit: the date plus a hash of its key
func learnCallbackData(date models.LocalDate, p models.LearningProgress) string {
	return callbackLearn + strings.ReplaceAll(date.String(), "-", "") + ":" + keyHash(p.Key())
}

// parseLearnCallback splits learn callback data into its date and word hash
func parseLearnCallback(data string) (models.LocalDate, string, error) {
	rest, ok := strings.CutPrefix(data, callbackLearn)
	if !ok {
		return models.LocalDate{}, "", fmt.Errorf("not a learn callback: %q", data)
	}
	compact, hash, ok := strings.Cut(rest, ":")
	if !ok || len(compact) != 8 || hash == "" {
		return models.LocalDate{}, "", fmt.Errorf("malformed learn callback: %q", data)
	}
	date, err := models.ParseLocalDate(compact[:4] + "-" + compact[4:6] + "-" + compact[6:])
	if err != nil {
		return models.LocalDate{}, "", err
	}
	return date, hash, nil
}

func keyHash(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return fmt.Sprintf("%08x", h.Sum32())
}

// findByHash returns the word of sel whose key hashes to hash
func findByHash(sel *models.DailySelection, hash string) (models.LearningProgress, bool) {
	for _, list := range [][]models.LearningProgress{sel.ReviewWords, sel.NewWords} {
		for _, p := range list {
			if keyHash(p.Key()) == hash {
				return p, true
			}
		}
	}
	return models.LearningProgress{}, false
}

// formatSelection renders today's list as one or more message texts
func formatSelection(sel *models.DailySelection, vocabulary map[string]models.Word) []string {
	if sel.TotalCount == 0 {
		return []string{"🎉 Nothing left for today. Come back tomorrow!"}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("📅 %s · %s · %d words", sel.Date, sel.Severity, sel.TotalCount))
	if len(sel.ReviewWords) > 0 {
		lines = append(lines, "", fmt.Sprintf("🔁 Review (%d)", len(sel.ReviewWords)))
		for _, p := range sel.ReviewWords {
			lines = append(lines, formatWord(p, vocabulary))
		}
	}
	if len(sel.NewWords) > 0 {
		lines = append(lines, "", fmt.Sprintf("🆕 New (%d)", len(sel.NewWords)))
		for _, p := range sel.NewWords {
			lines = append(lines, formatWord(p, vocabulary))
		}
	}
	return chunkLines(lines, maxMessageLen)
}

func formatWord(p models.LearningProgress, vocabulary map[string]models.Word) string {
	line := "• " + p.Word
	if p.Category != "" {
		line += " [" + p.Category + "]"
	}
	if w, ok := vocabulary[p.Key()]; ok {
		if w.Meaning != "" {
			line += " - " + w.Meaning
		}
		if w.Example != "" {
			line += "\n   « " + w.Example + " »"
		}
	}
	return line
}

// learnKeyboard offers a "learned" button per word, two per row
func learnKeyboard(sel *models.DailySelection) [][]MenuButton {
	var rows [][]MenuButton
	var row []MenuButton
	count := 0
	for _, list := range [][]models.LearningProgress{sel.ReviewWords, sel.NewWords} {
		for _, p := range list {
			if count == maxLearnButtons {
				break
			}
			row = append(row, MenuButton{Text: "✅ " + p.Word, CallbackData: learnCallbackData(sel.Date, p)})
			count++
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func formatStats(stats spaced_repetition.Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 Your progress\n\n")
	fmt.Fprintf(&sb, "Words: %d\n", stats.TotalWords)
	fmt.Fprintf(&sb, "Learned: %d (due today: %d)\n", stats.Learned(), stats.DueToday)
	fmt.Fprintf(&sb, "Not started: %d\n", stats.NewWords)
	fmt.Fprintf(&sb, "Reviews done: %d\n", stats.TotalReview)
	if len(stats.Categories) > 0 {
		sb.WriteString("\nBy category:\n")
		for _, c := range stats.Categories {
			fmt.Fprintf(&sb, "• %s: %d/%d (%.0f%%)\n", c.Category, c.Learned, c.Total, c.CompletionPercentage())
		}
	}
	return sb.String()
}

func formatNextReview(p models.LearningProgress, today models.LocalDate) string {
	days := 0
	for d := today; d.Before(p.NextReviewDate); d = d.AddDays(1) {
		days++
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("✅ %s learned. Next review in %d %s (%s).", p.Word, days, unit, p.NextReviewDate)
}

// chunkLines joins lines into texts no longer than limit
func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var sb strings.Builder
	for _, line := range lines {
		if sb.Len() > 0 && sb.Len()+len(line)+1 > limit {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
