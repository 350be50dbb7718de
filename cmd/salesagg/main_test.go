package main

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescli/internal/config"
)

func writeSalesFile(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	header := []interface{}{"account number", "name", "date", "quantity", "unit price", "ext price"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_EndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()

	// Two sales files over five accounts. The reference maps three of them;
	// the remaining two must fall back to the configured default.
	writeSalesFile(t, filepath.Join(dataDir, "sales-feb-2014.xlsx"), [][]interface{}{
		{218895, "Kulas Inc", "2014-02-02", 4, 20.0, 80.0},
		{146832, "Kiehn-Spinka", "2014-02-03", 1, 30.0, 30.0},
		{146832, "Kiehn-Spinka", "2014-02-10", 2, 30.0, 60.0},
		{714466, "Trantow-Barrows", "2014-02-12", 5, 10.0, 50.0},
	})
	writeSalesFile(t, filepath.Join(dataDir, "sales-jan-2014.xlsx"), [][]interface{}{
		{740150, "Barton LLC", "2014-01-01", 10, 50.0, 500.0},
		{740150, "Barton LLC", "2014-01-15", 2, 50.0, 100.0},
		{714466, "Trantow-Barrows", "2014-01-03", 3, 10.0, 30.0},
		{737550, "Fritsch, Russel and Anderson", "2014-01-04", 7, 25.0, 175.0},
	})

	statusPath := filepath.Join(dataDir, "customer-status.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"account number", "name", "status"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{740150, "Barton LLC", "gold"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{714466, "Trantow-Barrows", "silver"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{218895, "Kulas Inc", "silver"}))
	require.NoError(t, f.SaveAs(statusPath))
	require.NoError(t, f.Close())

	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)
	cfg.Paths.DataDir = dataDir
	cfg.Paths.OutputDir = outDir

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	require.NoError(t, run(context.Background(), logger, cfg))

	summary := readCSV(t, filepath.Join(outDir, summaryFile))
	require.NotEmpty(t, summary)
	assert.Equal(t, "status", summary[0][0])
	assert.Contains(t, summary[0], "ext price_sum")
	assert.Contains(t, summary[0], "ext price_mean")
	assert.Contains(t, summary[0], "ext price_count")

	// one row per observed status, in level order rather than lexical order
	var statuses []string
	for _, row := range summary[1:] {
		statuses = append(statuses, row[0])
	}
	assert.Equal(t, []string{"gold", "silver", "bronze"}, statuses)

	// every input row landed in exactly one group
	countIdx := -1
	for i, h := range summary[0] {
		if h == "ext price_count" {
			countIdx = i
		}
	}
	require.GreaterOrEqual(t, countIdx, 0)
	total := 0.0
	for _, row := range summary[1:] {
		n, err := strconv.ParseFloat(row[countIdx], 64)
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, 8.0, total)

	// gold mean(ext price) over Barton LLC's two rows
	meanIdx := -1
	for i, h := range summary[0] {
		if h == "ext price_mean" {
			meanIdx = i
		}
	}
	gold := summary[1]
	mean, err := strconv.ParseFloat(gold[meanIdx], 64)
	require.NoError(t, err)
	assert.Equal(t, 300.0, mean)

	// distinct accounts per status: 1 gold, 2 silver, 2 defaulted to bronze
	counts := readCSV(t, filepath.Join(outDir, countsFile))
	assert.Equal(t, [][]string{
		{"status", "count"},
		{"gold", "1"},
		{"silver", "2"},
		{"bronze", "2"},
	}, counts)
}

func TestRun_NoMatchingFiles(t *testing.T) {
	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err = run(context.Background(), logger, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files matching")
}

func TestRun_StatusValueOutsideLevelsFails(t *testing.T) {
	dataDir := t.TempDir()

	writeSalesFile(t, filepath.Join(dataDir, "sales-jan-2014.xlsx"), [][]interface{}{
		{740150, "Barton LLC", "2014-01-01", 1, 10.0, 10.0},
	})

	statusPath := filepath.Join(dataDir, "customer-status.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"account number", "name", "status"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{740150, "Barton LLC", "platinum"}))
	require.NoError(t, f.SaveAs(statusPath))
	require.NoError(t, f.Close())

	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)
	cfg.Paths.DataDir = dataDir
	cfg.Paths.OutputDir = t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err = run(context.Background(), logger, cfg)
	require.Error(t, err)
}
