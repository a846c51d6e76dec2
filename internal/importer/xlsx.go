// Package importer loads verse text from spreadsheets into the verse database.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

const defaultBatchSize = 500

var (
	ErrEmptyText    = errors.New("empty verse text")
	ErrInvalidSurah = errors.New("invalid surah number")
	ErrInvalidAyah  = errors.New("invalid ayah number")
	ErrDuplicate    = errors.New("duplicate verse")
)

// VerseWriter stores imported verses.
type VerseWriter interface {
	Upsert(ctx context.Context, verses []entities.Verse) error
}

// Options configures an import. Columns are fixed: surah | ayah | text | translation.
type Options struct {
	Sheet      string // defaults to the first sheet
	SkipHeader bool
	BatchSize  int
}

// RowError is a row that could not be imported.
type RowError struct {
	Row int // 1-based spreadsheet row
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result holds the result of an import.
type Result struct {
	Processed int
	Imported  int
	Errors    []RowError
}

// ImportXLSX reads verses from an xlsx file and upserts them in batches.
// Invalid rows are collected in Result and do not abort the import.
func ImportXLSX(ctx context.Context, path string, opts Options, store VerseWriter) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows of %q: %w", sheet, err)
	}

	return Import(ctx, rows, opts, store)
}

// Import upserts verses parsed from already loaded rows.
func Import(ctx context.Context, rows [][]string, opts Options, store VerseWriter) (*Result, error) {
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	result := &Result{}
	seen := make(map[[2]int]int)
	batch := make([]entities.Verse, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.Upsert(ctx, batch); err != nil {
			return fmt.Errorf("upsert verses: %w", err)
		}
		result.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && opts.SkipHeader {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.Processed++

		v, err := parseRow(row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Err: err})
			continue
		}

		key := [2]int{v.Surah, v.Ayah}
		if first, ok := seen[key]; ok {
			result.Errors = append(result.Errors, RowError{
				Row: rowNum,
				Err: fmt.Errorf("%w: %s first seen in row %d", ErrDuplicate, v.Key(), first),
			})
			continue
		}
		seen[key] = rowNum

		batch = append(batch, v)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	return result, nil
}

func parseRow(row []string) (entities.Verse, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	surah, err := strconv.Atoi(cell(0))
	if err != nil || surah < 1 || surah > entities.TotalSurahs {
		return entities.Verse{}, fmt.Errorf("%w: %q", ErrInvalidSurah, cell(0))
	}

	ayah, err := strconv.Atoi(cell(1))
	if err != nil || ayah < 1 {
		return entities.Verse{}, fmt.Errorf("%w: %q", ErrInvalidAyah, cell(1))
	}

	text := Normalize(cell(2))
	if text == "" {
		return entities.Verse{}, ErrEmptyText
	}

	return entities.Verse{
		Surah:       surah,
		Ayah:        ayah,
		Text:        text,
		Translation: Normalize(cell(3)),
	}, nil
}

// Normalize brings text to NFC so identical verses compare equal byte for byte.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
