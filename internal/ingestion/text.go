// Package ingestion turns fetched pages and uploaded documents into clean text.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/talentmatch/talent-match/internal/fetch"
)

var (
	innerSpace  = regexp.MustCompile(`\s+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	controlRune = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F\x{FEFF}]`)
)

// CleanText normalizes line endings, spacing and blank lines while keeping
// headings, bullets and indentation. Output is deterministic.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = controlRune.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	trimmed := strings.TrimLeft(line, " \t\u00a0")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		// Word and PDF bullets become markdown bullets.
		for _, b := range []string{"• ", "· ", "▪ "} {
			if strings.HasPrefix(trimmed, b) {
				trimmed = "- " + strings.TrimPrefix(trimmed, b)
				break
			}
		}
		return strings.Repeat(" ", indent) + trimmed
	}

	return strings.Repeat(" ", indent) + innerSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	for _, b := range []string{"- ", "* ", "• ", "· ", "▪ "} {
		if strings.HasPrefix(trimmed, b) {
			return true
		}
	}
	return false
}

// IngestFromFile reads a saved job posting. HTML files are reduced to their
// main text first.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = fetch.ExtractMainText(text, fetch.JobPostingSelectors(), fetch.PlatformNoiseSelectors(fetch.PlatformUnknown)...)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, ErrContentExtractionFailed
	}
	return cleaned, NewMetadata(cleaned, ""), nil
}
