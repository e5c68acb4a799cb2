package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bindings.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
package = "foundation"
output = "./generated"

[[framework]]
name = "Foundation"
dump = "dumps/foundation.txt"
tbd = ["stubs/Foundation.tbd"]

[[framework]]
name = "CoreFoundation"
tbd = ["stubs/CoreFoundation.tbd"]
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "foundation", m.Package)
	assert.Equal(t, "./generated", m.Output)
	require.Len(t, m.Frameworks, 2)
	assert.Equal(t, "Foundation", m.Frameworks[0].Name)
	assert.Equal(t, "dumps/foundation.txt", m.Frameworks[0].Dump)
	assert.Equal(t, []string{"stubs/Foundation.tbd"}, m.Frameworks[0].TBD)
	assert.Empty(t, m.Frameworks[1].Dump)
}

func TestLoadDefaults(t *testing.T) {
	path := writeManifest(t, `
[[framework]]
name = "Foundation"
dump = "dump.txt"
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bindings", m.Package)
	assert.Equal(t, ".", m.Output)
}

func TestLoadRejectsEmptyManifest(t *testing.T) {
	path := writeManifest(t, `package = "x"`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInputlessFramework(t *testing.T) {
	path := writeManifest(t, `
[[framework]]
name = "Hollow"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hollow")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
