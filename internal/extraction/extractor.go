// Package extraction pulls plain text out of uploaded resume documents.
package extraction

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/ingestion"
	"github.com/talentmatch/talent-match/internal/logging"
)

// Supported formats
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// Partitioner turns a PDF into text.
type Partitioner interface {
	Partition(ctx context.Context, fileName string, data []byte) (string, error)
}

// Extractor dispatches on file extension.
type Extractor struct {
	pdf    Partitioner
	logger *zap.Logger
}

// NewExtractor returns an Extractor sending PDFs to pdf.
func NewExtractor(pdf Partitioner, logger *zap.Logger) *Extractor {
	return &Extractor{pdf: pdf, logger: logging.OrNop(logger)}
}

// FormatOf returns the document format for fileName, or "" when unsupported.
// Legacy .doc files are treated as Word documents.
func FormatOf(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDOCX
	}
	return ""
}

// Extract returns the cleaned text of a PDF or Word document.
func (e *Extractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	format := FormatOf(fileName)
	if format == "" {
		return "", &UnsupportedFormatError{FileName: fileName}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = e.pdf.Partition(ctx, fileName, data)
	case FormatDOCX:
		text, err = DocxText(data)
	}
	if err != nil {
		e.logger.Warn("document extraction failed",
			zap.String("file_name", fileName),
			zap.String("format", format),
			zap.Error(err))
		return "", err
	}

	text = ingestion.CleanText(text)
	if text == "" {
		return "", &ExtractionError{Format: format, Cause: ErrNoText}
	}

	e.logger.Debug("document extracted",
		zap.String("file_name", fileName),
		zap.String("format", format),
		zap.Int("bytes", len(data)),
		zap.Int("text_chars", len(text)))
	return text, nil
}
