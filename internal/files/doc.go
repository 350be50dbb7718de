// Package files provides discovery of input spreadsheet files by filename
// pattern. Results are sorted by name so the pipeline's file-then-row
// ordering is deterministic across runs.
package files
