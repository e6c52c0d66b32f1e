// Package snippet finds the block of source around a failing example so a
// detail view can show it. It knows nothing about any language grammar: a
// block is bounded by blank lines, and blank lines followed by indented code
// stay inside it.
package snippet

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// ErrLineOutOfRange is returned when the target line is not in the file.
var ErrLineOutOfRange = errors.New("line out of range")

var indentRe = regexp.MustCompile(`^\s`)

// Block is a contiguous run of source lines.
type Block struct {
	Start int      // 1-based line number of Lines[0]
	Lines []string // copied from the source
}

// End is the 1-based number of the last line in the block.
func (b Block) End() int {
	return b.Start + len(b.Lines) - 1
}

// Extract returns the smallest blank-line-bounded block enclosing target
// (1-based). lines is never modified.
func Extract(lines []string, target int) (Block, error) {
	if target < 1 || target > len(lines) {
		return Block{}, fmt.Errorf("%w: %d not in 1..%d", ErrLineOutOfRange, target, len(lines))
	}
	t := target - 1

	start := t
	for start > 0 && (lines[start-1] != "" || indented(lines, start)) {
		start--
	}
	end := t
	for end < len(lines)-1 && (lines[end+1] != "" || indented(lines, end+2)) {
		end++
	}

	// The scan stops on boundary blank lines; drop them, but keep the target.
	for start < t && lines[start] == "" {
		start++
	}
	for end > t && lines[end] == "" {
		end--
	}

	return Block{Start: start + 1, Lines: slices.Clone(lines[start : end+1])}, nil
}

func indented(lines []string, i int) bool {
	return i >= 0 && i < len(lines) && indentRe.MatchString(lines[i])
}
