package fs_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/fs"
	"github.com/fwojciec/wikiscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(url, title string) *wikiscrape.Result {
	return &wikiscrape.Result{
		Title:     title,
		Content:   "Body of " + title,
		SourceURL: url,
		Success:   true,
		Message:   wikiscrape.SuccessMessage,
	}
}

// Story: Atomic Result Storage
// The store uses a temp directory for atomic updates

func TestResultStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewResultStore(base, "output")

	// When I save a result
	err := store.Save(context.Background(), result("https://en.wikipedia.org/wiki/Go", "Go"))

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory (not final)
	tempPath := filepath.Join(base, "output.tmp", "en.wikipedia.org", "Go.json")
	_, err = os.Stat(tempPath)
	require.NoError(t, err, "file should exist in temp directory")

	// And final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestResultStore_WritesIndentedJSON(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewResultStore(base, "output")
	require.NoError(t, store.Save(context.Background(), result("https://de.wikipedia.org/wiki/Berlin", "Berlin")))
	require.NoError(t, store.Commit())

	data, err := os.ReadFile(filepath.Join(base, "output", "de.wikipedia.org", "Berlin.json"))
	require.NoError(t, err)

	assert.Contains(t, string(data), "\n  \"title\": \"Berlin\"")
	var got wikiscrape.Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Berlin", got.Title)
	assert.Equal(t, "https://de.wikipedia.org/wiki/Berlin", got.SourceURL)
}

func TestResultStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with an existing output from a previous run
	base := t.TempDir()
	stale := filepath.Join(base, "output", "stale.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

	store := fs.NewResultStore(base, "output")
	require.NoError(t, store.Save(context.Background(), result("https://en.wikipedia.org/wiki/A", "A")))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the final directory holds only the new results
	_, err := os.Stat(filepath.Join(base, "output", "en.wikipedia.org", "A.json"))
	require.NoError(t, err, "file should exist in final directory after commit")
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "previous output should be replaced")

	// And temp directory is gone
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestResultStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewResultStore(base, "output")
	require.NoError(t, store.Save(context.Background(), result("https://en.wikipedia.org/wiki/A", "A")))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestResultStore_WritesRenderedMarkdown(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewResultStore(base, "output", fs.WithRenderer(&mock.Renderer{
		RenderFn: func(r *wikiscrape.Result) (string, error) {
			return "# " + r.Title + "\n", nil
		},
	}))
	require.NoError(t, store.Save(context.Background(), result("https://en.wikipedia.org/wiki/Go", "Go")))
	require.NoError(t, store.Commit())

	md, err := os.ReadFile(filepath.Join(base, "output", "en.wikipedia.org", "Go.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Go\n", string(md))
}

func TestResultStore_ReturnsRendererError(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewResultStore(base, "output", fs.WithRenderer(&mock.Renderer{
		RenderFn: func(*wikiscrape.Result) (string, error) {
			return "", errors.New("render failed")
		},
	}))

	err := store.Save(context.Background(), result("https://en.wikipedia.org/wiki/Go", "Go"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render failed")
}

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple article", "https://en.wikipedia.org/wiki/Go", filepath.Join("en.wikipedia.org", "Go.json")},
		{"parentheses", "https://en.wikipedia.org/wiki/Go_(programming_language)", filepath.Join("en.wikipedia.org", "Go_(programming_language).json")},
		{"subpage", "https://en.wikipedia.org/wiki/A/B", filepath.Join("en.wikipedia.org", "A_B.json")},
		{"escaped", "https://fr.wikipedia.org/wiki/Caf%C3%A9", filepath.Join("fr.wikipedia.org", "Café.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLToPath_RejectsUnusableURLs(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"/wiki/Go",
		"https://en.wikipedia.org/",
		"https://en.wikipedia.org/wiki/",
		"https://en.wikipedia.org/wiki/..",
	} {
		_, err := fs.URLToPath(raw)
		assert.Equal(t, wikiscrape.EINVALID, wikiscrape.ErrorCode(err), raw)
	}
}
