package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverseContainsCoreFunctions(t *testing.T) {
	names := make(map[string]Function)
	for _, fn := range Universe() {
		names[fn.Name] = fn
	}
	require.Contains(t, names, "from")
	require.Contains(t, names, "range")
	require.Contains(t, names, "filter")

	assert.Equal(t, "universe", names["from"].Package)
	assert.Equal(t, []string{"start"}, names["range"].Required)
}

func TestLookupPackage(t *testing.T) {
	pkg, ok := LookupPackage("strings")
	require.True(t, ok)
	assert.Equal(t, "strings", pkg.Name)
	assert.NotEmpty(t, pkg.Functions)

	geo, ok := LookupPackage("experimental/geo")
	require.True(t, ok)
	assert.Equal(t, "geo", geo.Name)

	_, ok = LookupPackage("no/such/package")
	assert.False(t, ok)
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "geo", PackageName("experimental/geo"))
	assert.Equal(t, "strings", PackageName("strings"))
}
