package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Contains(t, result, "Line with multiple spaces")
	assert.NotContains(t, result, "    ") // Should not have 4 spaces
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	// Should have max 2 consecutive newlines
	assert.NotContains(t, result, "\n\n\n\n")
	// But should preserve up to 2
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	// All should be normalized to LF
	assert.NotContains(t, result, "\r\n")
	assert.NotContains(t, result, "\r")
	assert.Contains(t, result, "\n")
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	// Same input should produce identical output
	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	// Should preserve relative indentation
	assert.Contains(t, result, "Indented")
	assert.Contains(t, result, "Less indented")
}

func TestCleanText_ConvertsUnicodeBullets(t *testing.T) {
	result := CleanText("Skills\n• Go\n  · Kubernetes\n▪ SQL")

	assert.Equal(t, "Skills\n- Go\n  - Kubernetes\n- SQL", result)
}

func TestCleanText_StripsControlCharacters(t *testing.T) {
	result := CleanText("\ufeffSenior\x00 Engineer\x07")

	assert.Equal(t, "Senior Engineer", result)
}

func TestCleanText_Idempotent(t *testing.T) {
	input := "# Title\r\n\r\n\r\n\r\n•   Go    experience\n\tIndented   text  "
	once := CleanText(input)

	assert.Equal(t, once, CleanText(once))
}

func TestIngestFromFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Job Title\n\n\n\nDescription   here"), 0o644))

	text, metadata, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "# Job Title\n\nDescription here", text)
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
}

func TestIngestFromFile_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.html")
	html := `<html><body><nav>Menu</nav><div class="job-description"><h1>Data Engineer</h1><p>Build pipelines</p></div><form>Apply</form></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	text, _, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer\nBuild pipelines", text)
}

func TestIngestFromFile_Errors(t *testing.T) {
	_, _, err := IngestFromFile("/nonexistent/file.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\n "), 0o644))
	_, _, err = IngestFromFile(empty)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestNewMetadata_HashTracksContent(t *testing.T) {
	a := NewMetadata("Content 1", "")
	b := NewMetadata("Content 1", "https://example.com")
	c := NewMetadata("Content 2", "")

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.Equal(t, "https://example.com", b.URL)
}
