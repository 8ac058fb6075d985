package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/talentmatch/talent-match/internal/logging"
)

// Partition request defaults
const (
	DefaultStrategy         = "hi_res"
	DefaultSplitConcurrency = 8
	DefaultTimeout          = 120 * time.Second
)

// UnstructuredClient calls the Unstructured general partition endpoint.
type UnstructuredClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewUnstructuredClient returns a client for the partition endpoint at url.
func NewUnstructuredClient(url, apiKey string, timeout time.Duration) *UnstructuredClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &UnstructuredClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type element struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Partition uploads a PDF and joins the text of the returned elements.
func (c *UnstructuredClient) Partition(ctx context.Context, fileName string, data []byte) (string, error) {
	body, contentType, err := partitionForm(fileName, data)
	if err != nil {
		return "", &PartitionError{Message: "failed to build request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", &PartitionError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("unstructured-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &PartitionError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &PartitionError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		// The service could not read the file itself.
		return "", &ExtractionError{Format: FormatPDF, Cause: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw))}
	case resp.StatusCode != http.StatusOK:
		return "", &PartitionError{StatusCode: resp.StatusCode, Message: truncate(raw)}
	}

	elements, err := decodeElements(raw)
	if err != nil {
		return "", &PartitionError{StatusCode: resp.StatusCode, Message: "unexpected response body", Cause: err}
	}

	lines := make([]string, 0, len(elements))
	for _, e := range elements {
		if strings.TrimSpace(e.Text) != "" {
			lines = append(lines, e.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func partitionForm(fileName string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("files", filepath.Base(fileName))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"strategy", DefaultStrategy},
		{"split_pdf_page", "true"},
		{"split_pdf_allow_failed", "true"},
		{"split_pdf_concurrency_level", strconv.Itoa(DefaultSplitConcurrency)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// decodeElements accepts a bare element array or an {"elements": [...]} object.
func decodeElements(raw []byte) ([]element, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Elements []element `json:"elements"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Elements, nil
	}
	var elements []element
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

func truncate(raw []byte) string {
	return logging.Truncate(strings.TrimSpace(string(raw)), 300)
}
