package jobdesc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `
<html>
	<head><style>body { color: red; }</style></head>
	<body>
		<nav>Jobs Home</nav>
		<div class="job-description">
			<h1>Senior   Backend Engineer</h1>
			<p>We use Go, Kafka and PostgreSQL.</p>
		</div>
		<form class="application-form">Upload your resume</form>
		<footer>Copyright</footer>
	</body>
</html>`

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapses spaces", "Senior   Go\tEngineer", "Senior Go Engineer"},
		{"normalizes line endings", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"limits blank lines", "  intro \r\n\r\n\r\n\r\n  Kafka  ", "intro\n\nKafka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/1", PlatformWorkday},
		{"https://careers.example.com/jobs/1", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestExtractText_PrefersDescriptionAndDropsNoise(t *testing.T) {
	text, err := ExtractText(postingHTML, PlatformUnknown)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "We use Go, Kafka and PostgreSQL.")
	assert.NotContains(t, text, "Jobs Home")
	assert.NotContains(t, text, "Upload your resume")
	assert.NotContains(t, text, "Copyright")
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	text, err := ExtractText("<html><body><p>Plain posting</p></body></html>", PlatformLever)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting", text)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posting":
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(postingHTML))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Go   developer\n\n\n\nRemote"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	t.Run("html", func(t *testing.T) {
		text, err := Fetch(context.Background(), srv.URL+"/posting", nil)
		require.NoError(t, err)
		assert.Contains(t, text, "Kafka")
		assert.NotContains(t, text, "color: red")
	})

	t.Run("plain text", func(t *testing.T) {
		text, err := Fetch(context.Background(), srv.URL+"/plain", &Options{})
		require.NoError(t, err)
		assert.Equal(t, "Go developer\n\nRemote", text)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Fetch(context.Background(), srv.URL+"/missing", nil)
		require.Error(t, err)

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := Fetch(context.Background(), "not-a-url", nil)
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "invalid URL", fetchErr.Message)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Fetch(ctx, srv.URL+"/posting", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoad(t *testing.T) {
	text, err := Load(context.Background(), "  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Looking for   Terraform  \n"), 0644))
	text, err = Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Looking for Terraform", text)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://jobs.lever.co/acme"))
	assert.True(t, IsURL("http://localhost/job"))
	assert.False(t, IsURL("jobs/description.txt"))
	assert.False(t, IsURL("ftp://example.com/jd"))
}
