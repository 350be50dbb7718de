// Package dataprocessing loads spreadsheet files into dataset tables.
//
// The Loader handles the file boundary of the pipeline: it reads Excel
// workbooks with excelize and CSV files with encoding/csv, maps the header
// row to column names, infers float columns from the data, and hands back
// immutable dataset.Table values the transform layer works on.
//
// Basic usage:
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{})
//	combined, err := loader.LoadAndConcatenate(ctx, paths, dataset.ConcatOptions{})
//
// Errors are typed: unreadable or headerless files surface as parse errors,
// incompatible column sets across files as schema errors (per the concat
// policy in effect).
package dataprocessing
