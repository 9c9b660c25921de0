package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEntries(t *testing.T) {
	content := `# Dualar

## Sabah duası

İlk satır **vurgulu**.

## Akşam duası

İkinci bölüm.
`
	path := filepath.Join(t.TempDir(), "dualar.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Sabah duası", entries[0].Title)
	assert.Contains(t, entries[0].HTML, "<strong>vurgulu</strong>")
	assert.Equal(t, "Akşam duası", entries[1].Title)
	assert.Contains(t, entries[1].HTML, "İkinci bölüm")
}

func TestLoadEntriesMissingFile(t *testing.T) {
	_, err := LoadEntries(filepath.Join(t.TempDir(), "yok.md"))
	assert.Error(t, err)
}
