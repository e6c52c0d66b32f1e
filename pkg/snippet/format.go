package snippet

import "fmt"

// Numbered formats the block as " 12| code" lines, marking target with ">".
// With limit > 0 at most limit lines are kept, in a window centred on target.
func (b Block) Numbered(target, limit int) []string {
	from, to := 0, len(b.Lines)
	if limit > 0 && len(b.Lines) > limit {
		from = max(target-b.Start-limit/2, 0)
		to = from + limit
		if to > len(b.Lines) {
			to = len(b.Lines)
			from = to - limit
		}
	}
	width := len(fmt.Sprint(b.Start + to - 1))
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		n := b.Start + i
		marker := " "
		if n == target {
			marker = ">"
		}
		out = append(out, fmt.Sprintf("%s%*d| %s", marker, width, n, b.Lines[i]))
	}
	return out
}
