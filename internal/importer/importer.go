package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/xuri/excelize/v2"
)

// Column layout of an import sheet. Hints and tags hold values separated by
// listSeparator.
const (
	colFront = iota
	colBack
	colNotes
	colHints
	colTags
	colDifficulty
	colPriority
)

const listSeparator = ";"

// Format identifies the layout of an import file.
type Format string

// Supported formats
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for file formats other than xlsx and csv.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// FormatFromPath infers the format from a file name.
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// RowError describes a row that could not be imported.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result summarizes an import.
type Result struct {
	Processed int
	Imported  int
	Skipped   []RowError
}

// Importer reads flashcards from spreadsheets into a deck.
type Importer struct {
	cards  service.CardService
	cfg    config.ImportConfig
	logger *slog.Logger
}

// New creates an Importer.
func New(cards service.CardService, cfg config.ImportConfig, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}
	return &Importer{
		cards:  cards,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "importer")),
	}
}

// Import reads cards from r and adds the valid ones to the deck in a single
// transaction. Invalid rows are reported in the result and do not abort the
// import.
func (i *Importer) Import(
	ctx context.Context,
	userID, deckID uuid.UUID,
	r io.Reader,
	format Format,
) (*Result, error) {
	rows, err := i.readRows(r, format)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	contents := make([]domain.CardContent, 0, len(rows))
	for idx, row := range rows {
		rowNum := idx + 1
		if rowNum < i.cfg.StartRow || blank(row) {
			continue
		}
		result.Processed++

		content, err := parseRow(row)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Err: err})
			continue
		}
		contents = append(contents, content)
	}

	if len(contents) > 0 {
		created, err := i.cards.CreateCards(ctx, userID, deckID, contents)
		if err != nil {
			return nil, fmt.Errorf("failed to create cards: %w", err)
		}
		result.Imported = len(created)
	}

	i.logger.InfoContext(ctx, "import finished",
		slog.String("deck_id", deckID.String()),
		slog.Int("processed", result.Processed),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (i *Importer) readRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				i.logger.Warn("failed to close spreadsheet", slog.Any("error", cerr))
			}
		}()

		rows, err := f.GetRows(i.cfg.SheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", i.cfg.SheetName, err)
		}
		return rows, nil

	case FormatCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseRow(row []string) (domain.CardContent, error) {
	content := domain.CardContent{
		Front:      cell(row, colFront),
		Back:       cell(row, colBack),
		Notes:      cell(row, colNotes),
		Hints:      splitList(cell(row, colHints)),
		Tags:       splitList(cell(row, colTags)),
		Difficulty: domain.Difficulty(strings.ToLower(cell(row, colDifficulty))),
	}

	if content.Front == "" {
		return content, domain.NewValidationError("front", "cannot be empty", domain.ErrCardFrontEmpty)
	}
	if content.Back == "" {
		return content, domain.NewValidationError("back", "cannot be empty", domain.ErrCardBackEmpty)
	}
	if content.Difficulty != "" && !content.Difficulty.Valid() {
		return content, domain.NewValidationError("difficulty", "is not a known difficulty", domain.ErrInvalidDifficulty)
	}
	if raw := cell(row, colPriority); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil || priority < 0 || priority > 10 {
			return content, domain.NewValidationError("priority", "must be between 0 and 10", domain.ErrInvalidPriority)
		}
		content.Priority = priority
	}

	return content, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
