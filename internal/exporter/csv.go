package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a new CSV writer rooted at the given output directory
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Append     bool
	BOMPrefix  bool   // Add UTF-8 BOM for Excel compatibility
	DateLayout string // layout for time cells; "2006-01-02" when empty
}

// WriteTable renders a dataset table to a CSV file, header row first.
// Null cells render as empty fields.
func (w *CSVWriter) WriteTable(filePath string, t *dataset.Table, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("writing table to CSV",
		slog.String("path", fullPath),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()))

	cols := t.Columns()
	records := make([][]string, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell.Format(options.DateLayout)
		}
		records = append(records, record)
	}

	return w.write(fullPath, cols, records, options)
}

// WriteCounts renders a category → count mapping to a two-column CSV file.
// Rows follow the given level order; keys outside it are appended sorted so
// output stays deterministic.
func (w *CSVWriter) WriteCounts(filePath, keyColumn string, counts map[string]int, levelOrder []string) error {
	fullPath := w.resolvePath(filePath)

	var keys []string
	seen := make(map[string]bool)
	for _, l := range levelOrder {
		if _, ok := counts[l]; ok {
			keys = append(keys, l)
			seen[l] = true
		}
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	records := make([][]string, 0, len(keys))
	for _, k := range keys {
		records = append(records, []string{k, dataset.Float(float64(counts[k])).String()})
	}

	return w.write(fullPath, []string{keyColumn, "count"}, records, WriteOptions{})
}

func (w *CSVWriter) write(fullPath string, headers []string, records [][]string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", fullPath)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return errors.NewStorageError("failed to open output file", err).
			WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append {
		if err := writer.Write(headers); err != nil {
			return errors.NewStorageError("failed to write header row", err)
		}
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError("failed to write record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV output", err)
	}
	return nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.outputDir == "" {
		return filePath
	}
	return filepath.Join(w.outputDir, filePath)
}
