package extraction

import (
	"archive/zip"
	"bytes"
	"fmt"

	"code.sajari.com/docconv/v2"
)

// docxParts must be present before the archive is handed to the converter.
var docxParts = []string{"[Content_Types].xml", "word/document.xml"}

// DocxText returns the raw text of a .docx file, including headers, footers
// and text boxes. Metadata is discarded.
func DocxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Cause: fmt.Errorf("not a readable Word document: %w", err)}
	}
	for _, name := range docxParts {
		f, err := archive.Open(name)
		if err != nil {
			return "", &ExtractionError{Format: FormatDOCX, Cause: fmt.Errorf("not a readable Word document: missing %s", name)}
		}
		_ = f.Close()
	}

	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Cause: fmt.Errorf("failed to convert Word document: %w", err)}
	}
	return text, nil
}
