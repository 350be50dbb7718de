package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	SheetName string // Excel sheet to read; first sheet when empty
}

// Loader reads spreadsheet files into dataset tables. The first row of a file
// is the header; every later row is data. A column whose non-empty cells all
// parse as numbers (thousands separators stripped) becomes a float column,
// everything else stays a string column. Dates are never inferred; callers
// convert date columns explicitly with dataset.ConvertColumnToTime.
type Loader struct {
	logger    *slog.Logger
	sheetName string
}

// NewLoader creates a loader with the given configuration
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		sheetName: config.SheetName,
	}
}

// LoadTable parses one spreadsheet file into a table. Excel files (.xlsx,
// .xlsm) are read with excelize; .csv files with encoding/csv. Anything else
// fails with a parse error.
func (l *Loader) LoadTable(ctx context.Context, path string) (*dataset.Table, error) {
	var raw [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		raw, err = l.readExcel(path)
	case ".csv":
		raw, err = l.readCSV(path)
	default:
		return nil, errors.NewParseError(
			fmt.Sprintf("unsupported file format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
	if err != nil {
		return nil, err
	}

	table, err := buildTable(raw)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "loaded table",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	return table, nil
}

// LoadAndConcatenate loads every path in input order and concatenates the
// resulting tables, so output rows follow file-then-row order and the result
// row count is the sum of the per-file row counts.
func (l *Loader) LoadAndConcatenate(ctx context.Context, paths []string, opts dataset.ConcatOptions) (*dataset.Table, error) {
	if len(paths) == 0 {
		return nil, errors.NewParseError("no input files given", nil)
	}

	tables := make([]*dataset.Table, 0, len(paths))
	for _, path := range paths {
		t, err := l.LoadTable(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		tables = append(tables, t)
	}

	combined, err := dataset.Concat(tables, opts)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "concatenated input files",
		slog.Int("file_count", len(paths)),
		slog.Int("total_rows", combined.NumRows()))

	return combined, nil
}

func (l *Loader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open Excel file", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheet := l.sheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewParseError("workbook has no sheets", nil).
				WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParseError(
			fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}
	return rows, nil
}

func (l *Loader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open CSV file", err).
			WithContext("path", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError("malformed CSV record", err).
				WithContext("path", path)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// buildTable turns raw header+data rows into a typed table
func buildTable(raw [][]string) (*dataset.Table, error) {
	if len(raw) == 0 {
		return nil, errors.NewParseError("file has no header row", nil)
	}

	header := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			return nil, errors.NewParseError(
				fmt.Sprintf("empty column name at header position %d", i), nil)
		}
	}

	data := raw[1:]

	numeric := make([]bool, len(header))
	for c := range header {
		numeric[c] = columnIsNumeric(data, c)
	}

	table, err := dataset.New(header...)
	if err != nil {
		return nil, err
	}

	for _, rec := range data {
		if rowIsEmpty(rec) {
			continue
		}
		row := make([]dataset.Value, len(header))
		for c := range header {
			cell := ""
			if c < len(rec) {
				cell = strings.TrimSpace(rec[c])
			}
			switch {
			case cell == "":
				row[c] = dataset.Null()
			case numeric[c]:
				f, _ := parseNumber(cell)
				row[c] = dataset.Float(f)
			default:
				row[c] = dataset.String(cell)
			}
		}
		if err := table.AppendRow(row...); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// columnIsNumeric reports whether every non-empty cell of the column parses
// as a number. Columns with no data at all stay string columns.
func columnIsNumeric(data [][]string, col int) bool {
	sawValue := false
	for _, rec := range data {
		if col >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		if _, ok := parseNumber(cell); !ok {
			return false
		}
		sawValue = true
	}
	return sawValue
}

// parseNumber parses a numeric cell, tolerating thousands separators
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func rowIsEmpty(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
