package snippet

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFile is returned when a source has no file for a path.
var ErrUnknownFile = errors.New("unknown file")

// Source looks up the lines of a source file by the path an example reports.
type Source interface {
	Lines(path string) ([]string, error)
}

// MapSource serves files from memory, keyed by reported path.
type MapSource map[string][]string

// Lines implements Source.
func (m MapSource) Lines(path string) ([]string, error) {
	lines, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFile, path)
	}
	return lines, nil
}

// DirSource reads files beneath Root. Reported paths such as
// "./spec/web/apache2_spec.rb" are resolved relative to Root; absolute paths
// are used as they are.
type DirSource struct {
	Root string
}

// Lines implements Source.
func (d DirSource) Lines(path string) ([]string, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(d.Root, filepath.FromSlash(path))
	}
	f, err := os.Open(full) // #nosec G304 -- reading user-supplied spec sources is the point
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFile, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// Lookup resolves path through src and extracts the block around line.
func Lookup(src Source, path string, line int) (Block, error) {
	if src == nil {
		return Block{}, fmt.Errorf("%w: %s", ErrUnknownFile, path)
	}
	lines, err := src.Lines(path)
	if err != nil {
		return Block{}, err
	}
	b, err := Extract(lines, line)
	if err != nil {
		return Block{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
