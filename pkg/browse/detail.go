package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkoosis/specmatrix/pkg/matrix"
	"github.com/dkoosis/specmatrix/pkg/serverspec"
	"github.com/dkoosis/specmatrix/pkg/snippet"
)

// maxBacktrace caps the backtrace frames shown for a failure.
const maxBacktrace = 5

// detailContent describes one cell: where the test lives, how it ran and,
// when src can resolve the file, the block of spec source around it.
func detailContent(s matrix.Section, row matrix.Row, cell matrix.Cell, src snippet.Source) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Host:   %s %s\n", row.Hostname, s.RoleSet)
	fmt.Fprintf(&sb, "Test:   %s\n", cell.Identity())
	fmt.Fprintf(&sb, "Status: %s\n", cell.Test.Status)

	if cell.Missing() {
		sb.WriteString("\nThis host did not run this test.\n")
		return sb.String()
	}

	if cell.Test.FullDescription != "" {
		fmt.Fprintf(&sb, "\n%s\n", cell.Test.FullDescription)
	}
	if cell.Test.RunTime > 0 {
		fmt.Fprintf(&sb, "Run time: %.3fs\n", cell.Test.RunTime)
	}
	if cell.Test.PendingMessage != "" {
		fmt.Fprintf(&sb, "Pending: %s\n", cell.Test.PendingMessage)
	}
	if ex := cell.Test.Exception; ex != nil {
		sb.WriteString("\n")
		if ex.Class != "" {
			sb.WriteString(ex.Class + "\n")
		}
		sb.WriteString(strings.TrimRight(ex.Message, "\n") + "\n")
		for i, frame := range ex.Backtrace {
			if i == maxBacktrace {
				fmt.Fprintf(&sb, "  ... %d more frames\n", len(ex.Backtrace)-maxBacktrace)
				break
			}
			sb.WriteString("  " + frame + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(sourceSection(cell.Test, src))
	return sb.String()
}

func sourceSection(test serverspec.Example, src snippet.Source) string {
	if src == nil {
		return "Source: no source root configured\n"
	}
	block, err := snippet.Lookup(src, test.FilePath, test.LineNumber)
	switch {
	case errors.Is(err, snippet.ErrUnknownFile):
		return "Source: unknown file " + test.FilePath + "\n"
	case errors.Is(err, snippet.ErrLineOutOfRange):
		return fmt.Sprintf("Source: line %d is outside %s\n", test.LineNumber, test.FilePath)
	case err != nil:
		return "Source: " + err.Error() + "\n"
	}
	return fmt.Sprintf("Source: %s:%d-%d\n%s\n", test.FilePath, block.Start, block.End(),
		strings.Join(block.Numbered(test.LineNumber, 0), "\n"))
}
