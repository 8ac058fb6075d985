package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingPage = `<html>
<head><title>Backend Engineer - Acme</title><script>track()</script></head>
<body>
	<nav>Jobs | About | Login</nav>
	<div class="sidebar">Similar jobs</div>
	<div class="job-description">
		<h1>Backend Engineer</h1>
		<p>Acme is hiring a backend engineer in Berlin.</p>
		<h2>Requirements</h2>
		<ul><li>Go</li><li>PostgreSQL</li></ul>
	</div>
	<form id="application-form">Upload resume</form>
	<footer>© Acme</footer>
</body>
</html>`

func TestURL(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/jobs/1":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(postingPage))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("fetches page", func(t *testing.T) {
		result, err := URL(context.Background(), server.URL+"/jobs/1", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Contains(t, result.HTML, "Backend Engineer")
		assert.Equal(t, DefaultUserAgent, userAgent)
	})

	t.Run("closed posting", func(t *testing.T) {
		result, err := URL(context.Background(), server.URL+"/jobs/2", nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "404")
		require.NotNil(t, result)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
	})

	t.Run("body is capped", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxBodyBytes = 100
		result, err := URL(context.Background(), server.URL+"/big", opts)
		require.NoError(t, err)
		assert.Len(t, result.HTML, 100)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := URL(ctx, server.URL+"/jobs/1", nil)
		assert.Error(t, err)
	})
}

func TestURL_RejectsInvalidURLs(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "file:///etc/passwd", "ftp://jobs.example.com/1"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "invalid URL", fetchErr.Message)
		})
	}
}

func TestExtractMainText_Posting(t *testing.T) {
	text, err := ExtractMainText(postingPage, JobPostingSelectors(), PlatformNoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)

	assert.Contains(t, text, "Acme is hiring a backend engineer in Berlin.")
	assert.Contains(t, text, "Go\nPostgreSQL")
	for _, noise := range []string{"Jobs | About", "Similar jobs", "Upload resume", "© Acme", "track()"} {
		assert.NotContains(t, text, noise)
	}
}

func TestExtractMainText_Selectors(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		notWant string
	}{
		{
			name:    "main element",
			html:    `<html><body><nav>Menu</nav><main><h1>Data Engineer</h1></main></body></html>`,
			want:    "Data Engineer",
			notWant: "Menu",
		},
		{
			name: "article element",
			html: `<html><body><article><p>Remote, full-time.</p></article></body></html>`,
			want: "Remote, full-time.",
		},
		{
			name: "falls back to body",
			html: `<html><body><div>Salary: 80k-100k</div></body></html>`,
			want: "Salary: 80k-100k",
		},
		{
			name:    "greenhouse layout",
			html:    `<html><body><div class="job__description body"><p>Own the billing API.</p></div><div class="application--wrapper">Apply</div></body></html>`,
			want:    "Own the billing API.",
			notWant: "Apply",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, PlatformContentSelectors(PlatformGreenhouse), PlatformNoiseSelectors(PlatformGreenhouse)...)
			require.NoError(t, err)
			assert.Contains(t, text, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, text, tt.notWant)
			}
		})
	}
}

func TestJobPostingSelectors(t *testing.T) {
	selectors := JobPostingSelectors()
	assert.Contains(t, selectors, ".job-description")
	assert.Contains(t, selectors, "#job-content")
	assert.Contains(t, selectors, "main")
	assert.Equal(t, "#content", selectors[len(selectors)-1])
}
