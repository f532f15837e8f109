package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragpartner/internal/domain"
)

func TestFromFileReadsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some document text\n"), 0o644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "some document text\n", text)
}

func TestFromFileUppercaseExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NOTES.TXT")
	require.NoError(t, os.WriteFile(path, []byte("shouty text"), 0o644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shouty text", text)
}

func TestFromFileRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slides.pptx")
	require.NoError(t, os.WriteFile(path, []byte("irrelevant"), 0o644))

	_, err := FromFile(path)
	require.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestFromFileRejectsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\t\n"), 0o644))

	_, err := FromFile(path)
	require.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestFromFileMissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
