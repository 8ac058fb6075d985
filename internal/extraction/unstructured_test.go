package extraction

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnstructuredClient_Partition(t *testing.T) {
	var (
		gotKey      string
		gotStrategy string
		gotSplit    string
		gotFileName string
		gotFile     []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("unstructured-api-key")
		gotStrategy = r.FormValue("strategy")
		gotSplit = r.FormValue("split_pdf_page")
		f, header, err := r.FormFile("files")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotFileName = header.Filename
		gotFile, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type": "Title", "text": "Jane Doe"},
			{"type": "Image", "text": ""},
			{"type": "NarrativeText", "text": "5 years of experience in Python"}
		]`))
	}))
	defer server.Close()

	client := NewUnstructuredClient(server.URL, "secret-key", 0)
	text, err := client.Partition(context.Background(), "/tmp/uploads/resume.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\n5 years of experience in Python", text)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, DefaultStrategy, gotStrategy)
	assert.Equal(t, "true", gotSplit)
	assert.Equal(t, "resume.pdf", gotFileName)
	assert.Equal(t, []byte("%PDF-1.7"), gotFile)
}

func TestUnstructuredClient_WrappedElements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements": [{"text": "Only line"}]}`))
	}))
	defer server.Close()

	text, err := NewUnstructuredClient(server.URL, "k", 0).Partition(context.Background(), "a.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "Only line", text)
}

func TestUnstructuredClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantFormat bool
	}{
		{name: "unreadable file", status: http.StatusUnprocessableEntity, body: `{"detail":"File is not a valid PDF"}`, wantFormat: true},
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail":"API key is invalid"}`},
		{name: "garbage body", status: http.StatusOK, body: "<html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewUnstructuredClient(server.URL, "k", 0).Partition(context.Background(), "a.pdf", []byte("x"))
			require.Error(t, err)
			if tt.wantFormat {
				var extractionErr *ExtractionError
				assert.ErrorAs(t, err, &extractionErr)
				return
			}
			var partitionErr *PartitionError
			assert.ErrorAs(t, err, &partitionErr)
		})
	}
}
