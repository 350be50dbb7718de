package files

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"salescli/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindSpreadsheets lists the files in dir whose names match the given shell
// pattern (e.g. "sales-*-2014.xlsx"). Results are sorted by name so pipeline
// input order is deterministic across runs and platforms.
func (d *Discovery) FindSpreadsheets(dir, pattern string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	// Reject a bad pattern up front rather than per entry
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return nil, errors.NewConfigError("invalid file pattern", err).
			WithContext("pattern", pattern)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, errors.NewStorageError("failed to read input directory", err).
			WithContext("dir", fullPath)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, _ := filepath.Match(pattern, entry.Name())
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Paths extracts the path list from discovered files, preserving order
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
