// Package discovery resolves an input path into the list of reading files
// to load.
//
// A path naming a file is used as-is. A path naming a directory is scanned
// (non-recursively) for .csv files, returned in name order so runs are
// deterministic.
//
// Example usage:
//
//	d := discovery.New(logger.Default())
//	inputs, err := d.Resolve("data/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, summary, err := loader.LoadAll(ctx, discovery.Paths(inputs))
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hmaia/sensor-stats/pkg/logger"
)

// InputFile describes a reading file selected for loading.
type InputFile struct {
	// Path is the resolved path to the file.
	Path string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Discoverer resolves input paths into reading files.
type Discoverer interface {
	// Resolve returns the reading files named by path.
	//
	// Parameters:
	//   - path: A file path, or a directory to scan for .csv files.
	//
	// Returns:
	//   - The files to load, in name order
	//   - ErrPathNotFound if the path does not exist
	//   - ErrNoInputFiles if a directory holds no .csv files
	Resolve(path string) ([]InputFile, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	logger logger.Logger
}

// New creates a new Discoverer instance.
func New(log logger.Logger) Discoverer {
	if log == nil {
		log = logger.Noop()
	}
	return &discoverer{logger: log}
}

// Resolve implements Discoverer.Resolve.
func (d *discoverer) Resolve(path string) ([]InputFile, error) {
	expanded := expandHome(path)

	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, expanded)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", expanded, err)
	}

	// A path naming a file is taken as-is, whatever its extension.
	if !info.IsDir() {
		return []InputFile{{
			Path:    expanded,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}, nil
	}

	return d.scanDirectory(expanded)
}

// scanDirectory collects the .csv files directly inside dir.
func (d *discoverer) scanDirectory(dir string) ([]InputFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]InputFile, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			d.logger.Warn("failed to get file info",
				"path", filepath.Join(dir, entry.Name()),
				"error", err)
			continue
		}

		files = append(files, InputFile{
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	d.logger.Debug("scanned input directory",
		"path", dir,
		"files_found", len(files))

	return files, nil
}

// Paths extracts the file paths from a list of inputs.
func Paths(files []InputFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
