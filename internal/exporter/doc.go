// Package exporter renders pipeline results to CSV files.
//
// The core transforms produce in-memory tables only; exporting is a caller
// concern, and this package is the one exporter the CLI ships with. It writes
// any dataset.Table (header row first, null cells empty) and the distinct
// count mapping, with options for a UTF-8 BOM and appending.
package exporter
