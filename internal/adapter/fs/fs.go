// Package fs lists and reads city observation files and writes the report
// file next to them.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReportFileName is the name of the report written into the source directory.
const ReportFileName = "LaunchAnalysisReport.csv"

// ErrNotDirectory is returned when the source path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Directory is a flat directory of city files. It implements
// pipeline.Source and pipeline.ReportWriter.
type Directory struct {
	path string
}

// NewDirectory returns a Directory rooted at path.
func NewDirectory(path string) *Directory {
	return &Directory{path: filepath.Clean(path)}
}

// Path returns the directory path.
func (d *Directory) Path() string {
	return d.path
}

// ReportPath returns where WriteReport puts the report.
func (d *Directory) ReportPath() string {
	return filepath.Join(d.path, ReportFileName)
}

// List returns the regular, non-hidden files in the directory sorted by
// name. The report file is skipped so a rerun does not treat it as a city.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list %s: %w", d.path, ErrNotDirectory)
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.path, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") || name == ReportFileName {
			continue
		}
		paths = append(paths, filepath.Join(d.path, name))
	}
	return paths, nil
}

// Read returns the full text of one file.
func (d *Directory) Read(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("no path provided")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteReport replaces the report file with content, exactly as given.
func (d *Directory) WriteReport(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := d.ReportPath()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
