package implementation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func symbolNames(symbols []protocol.SymbolInformation) []string {
	names := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		names = append(names, symbol.Name)
	}
	return names
}

func TestSymbolsForAssignments(t *testing.T) {
	file := parseSource(t, "a = 1\nb = (x) => x\n")

	symbols := collectSymbols(file, "file:///t.flux")
	require.Equal(t, []string{"a", "1", "b", "x"}, symbolNames(symbols))

	assert.Equal(t, protocol.SymbolKindVariable, symbols[0].Kind)
	assert.Equal(t, protocol.SymbolKindNumber, symbols[1].Kind)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[2].Kind)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[3].Kind)
	assert.Equal(t, "file:///t.flux", string(symbols[0].Location.URI))
}

func TestSymbolsForCalls(t *testing.T) {
	file := parseSource(t, "from(bucket: \"b\", fn: (r) => true)\n")

	symbols := collectSymbols(file, "file:///t.flux")
	names := symbolNames(symbols)
	require.Contains(t, names, "from")
	require.Contains(t, names, "bucket")
	require.Contains(t, names, "fn")

	byName := make(map[string]protocol.SymbolInformation)
	for _, symbol := range symbols {
		byName[symbol.Name] = symbol
	}
	assert.Equal(t, protocol.SymbolKindFunction, byName["from"].Kind)
	assert.Equal(t, protocol.SymbolKindVariable, byName["bucket"].Kind)
	// An argument whose value is a function literal gets function kind.
	assert.Equal(t, protocol.SymbolKindFunction, byName["fn"].Kind)
}

func TestSymbolsForArraysAndMembers(t *testing.T) {
	file := parseSource(t, "xs = [1, 2, 3]\ny = pkg.fn\n")

	symbols := collectSymbols(file, "file:///t.flux")
	names := symbolNames(symbols)

	// Arrays emit one "[]" symbol without descending into elements.
	assert.Contains(t, names, "[]")
	assert.NotContains(t, names, "1")

	// A member chain of plain identifiers emits an object symbol.
	assert.Contains(t, names, "pkg.fn")
}

func TestSymbolsForBinaryOperands(t *testing.T) {
	file := parseSource(t, "z = width * height\n")

	symbols := collectSymbols(file, "file:///t.flux")
	names := symbolNames(symbols)
	assert.Contains(t, names, "width")
	assert.Contains(t, names, "height")
}

func TestSymbolsAreSortedByPosition(t *testing.T) {
	file := parseSource(t, "b = 2\na = 1\n")

	symbols := collectSymbols(file, "file:///t.flux")
	require.NotEmpty(t, symbols)
	for i := 1; i < len(symbols); i++ {
		prev, cur := symbols[i-1].Location.Range.Start, symbols[i].Location.Range.Start
		ok := prev.Line < cur.Line || (prev.Line == cur.Line && prev.Character <= cur.Character)
		assert.True(t, ok, "symbols out of order at %d", i)
	}
}
