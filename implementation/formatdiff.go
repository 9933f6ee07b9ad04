package implementation

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// mismatch is one run of differing lines between the original text and its
// canonical reformatting: the 1-based start line on each side and the
// ordered removed-then-added lines.
type mismatch struct {
	originalLine  int
	formattedLine int
	removed       []string
	added         []string
}

// diffMismatches runs a line-oriented longest-common-subsequence diff and
// folds every non-equal opcode into one mismatch. Replace opcodes already
// carry their removed and added runs together, so adjacent removed+added
// lines land in a single record. Mismatches come out in source order over
// disjoint line ranges.
func diffMismatches(original, formatted string) []mismatch {
	a := splitLines(original)
	b := splitLines(formatted)
	matcher := difflib.NewMatcher(a, b)

	var mismatches []mismatch
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		mismatches = append(mismatches, mismatch{
			originalLine:  op.I1 + 1,
			formattedLine: op.J1 + 1,
			removed:       a[op.I1:op.I2],
			added:         b[op.J1:op.J2],
		})
	}
	return mismatches
}

// formatEdits converts each mismatch into one whole-line replacement edit.
// Applying all edits to the original yields exactly the formatted text; the
// underlying diff runs are disjoint, so the edits never overlap.
func formatEdits(original, formatted string) []protocol.TextEdit {
	mismatches := diffMismatches(original, formatted)
	edits := make([]protocol.TextEdit, 0, len(mismatches))
	for _, m := range mismatches {
		start := protocol.Position{Line: protocol.UInteger(m.originalLine - 1)}
		end := protocol.Position{Line: protocol.UInteger(m.originalLine - 1 + len(m.removed))}
		var text strings.Builder
		for _, line := range m.added {
			text.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				text.WriteByte('\n')
			}
		}
		edits = append(edits, protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: end},
			NewText: text.String(),
		})
	}
	return edits
}

// splitLines splits after each newline, keeping the terminators, with no
// phantom trailing element.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
