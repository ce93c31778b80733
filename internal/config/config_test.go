package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaultImports:\n  - Basics\nmoduleSearchOrder:\n  - Basics\n  - List\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Basics"}, m.DefaultImports)
	assert.True(t, m.IsDefaultImport("Basics"))
	assert.False(t, m.IsDefaultImport("List"))
}

func TestLoadMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moduleSearchOrder:\n  - Basics\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSuggestModuleSkipsExactMatch(t *testing.T) {
	m := &Manifest{DefaultImports: []string{"Basics"}, ModuleSearchOrder: []string{"Baisc", "Basics", "List"}}
	suggestion, ok := m.SuggestModule("Baisc")
	require.True(t, ok)
	assert.Equal(t, "Basics", suggestion)
}

func TestDefaultManifest(t *testing.T) {
	m := Default()
	assert.True(t, m.IsDefaultImport("Basics"))
}
