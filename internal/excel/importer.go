package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabday/pkg/models"
)

// WordStore is where imported words end up
type WordStore interface {
	Upsert(ctx context.Context, word *models.Word) (bool, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel or CSV file
	WordColumn      string // Column with the word
	MeaningColumn   string // Column with the meaning
	ExampleColumn   string // Column with an example sentence
	CategoryColumn  string // Column with the category
	SheetName       string // Sheet to import; empty means the first sheet
	StartRow        int    // The row to start importing from (1-based index)
	DefaultCategory string // Category for rows that name none
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:      "A",
		MeaningColumn:   "B",
		ExampleColumn:   "C",
		CategoryColumn:  "D",
		StartRow:        2, // By default, start from the second row (skip header)
		DefaultCategory: "General",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Categories     []string
	Errors         []string
}

func (r *ImportResult) addCategory(name string) {
	for _, c := range r.Categories {
		if c == name {
			return
		}
	}
	r.Categories = append(r.Categories, name)
}

// ImportWords imports words from an Excel or CSV file.
// Rows that already exist as (word, category) are updated in place.
func ImportWords(ctx context.Context, store WordStore, config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}
	if config.DefaultCategory == "" {
		config.DefaultCategory = DefaultImportConfig().DefaultCategory
	}

	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		return importFromCSV(ctx, store, config)
	case ".xlsx", ".xlsm", ".xltx":
		return importFromExcel(ctx, store, config)
	}
	return nil, fmt.Errorf("unsupported file type: %s", config.FilePath)
}

// importFromExcel imports words from an Excel file
func importFromExcel(ctx context.Context, store WordStore, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}

		word := models.Word{
			Word:     cell(row, config.WordColumn),
			Meaning:  cell(row, config.MeaningColumn),
			Example:  cell(row, config.ExampleColumn),
			Category: cell(row, config.CategoryColumn),
		}
		if word.Category == "" {
			word.Category = config.DefaultCategory
		}

		result.TotalProcessed++
		if err := saveWord(ctx, store, &word, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports words from a CSV file.
// Besides word,meaning,example,category rows it understands category header rows
// such as "Movement,," that apply to the rows below them.
func importFromCSV(ctx context.Context, store WordStore, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	result := &ImportResult{Errors: make([]string, 0)}
	currentCategory := config.DefaultCategory
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow || isBlank(row) {
			continue
		}

		if name, ok := categoryHeader(row); ok {
			currentCategory = name
			continue
		}

		word := models.Word{
			Word:     cell(row, config.WordColumn),
			Meaning:  cell(row, config.MeaningColumn),
			Example:  cell(row, config.ExampleColumn),
			Category: cell(row, config.CategoryColumn),
		}
		if word.Category == "" {
			word.Category = currentCategory
		}

		result.TotalProcessed++
		if err := saveWord(ctx, store, &word, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// saveWord cleans up and stores one word
func saveWord(ctx context.Context, store WordStore, word *models.Word, result *ImportResult) error {
	word.Word = cleanWord(word.Word)
	word.Meaning = strings.TrimSpace(word.Meaning)
	word.Example = strings.TrimSpace(word.Example)
	word.Category = strings.TrimSpace(word.Category)

	if word.Word == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if word.Meaning == "" {
		return fmt.Errorf("meaning cannot be empty")
	}

	created, err := store.Upsert(ctx, word)
	if err != nil {
		return err
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	result.addCategory(word.Category)
	return nil
}

// categoryHeader recognizes a row with only its first cell filled
func categoryHeader(row []string) (string, bool) {
	if len(row) < 2 {
		return "", false
	}
	name := strings.Trim(strings.TrimSpace(row[0]), "\"")
	if name == "" {
		return "", false
	}
	for _, c := range row[1:] {
		if strings.TrimSpace(c) != "" {
			return "", false
		}
	}
	return name, true
}

// cleanWord removes extra forms in parentheses, "go (went, gone)" becomes "go"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if i := columnToIndex(column); i >= 0 && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	index, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(column)))
	if err != nil {
		return -1
	}
	return index - 1
}
