package reload

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/langid/lib/langid"
)

// prepModels copies embedded models of the languages to a temp dir
func prepModels(t *testing.T, langs ...langid.Language) string {
	t.Helper()
	dir := t.TempDir()
	for _, l := range langs {
		copyModel(t, dir, l)
	}
	return dir
}

func copyModel(t *testing.T, dir string, l langid.Language) {
	t.Helper()
	rd, err := langid.EmbeddedSource().Open(l)
	require.NoError(t, err)
	defer rd.Close()
	fh, err := os.Create(filepath.Join(dir, langid.ModelFileName(l)))
	require.NoError(t, err)
	_, err = io.Copy(fh, rd)
	require.NoError(t, err)
	require.NoError(t, fh.Close())
}

func builder(dir string) func() (*langid.Detector, error) {
	return func() (*langid.Detector, error) {
		return langid.FromLanguages(langid.English, langid.German).
			WithModelSource(langid.DirSource(dir)).WithPreloadedLanguageModels().Build()
	}
}

func TestDetector_Reload(t *testing.T) {
	dir := prepModels(t, langid.English, langid.German)
	d, err := New(builder(dir))
	require.NoError(t, err)

	lang, ok := d.DetectBest("the children were playing in the garden")
	require.True(t, ok)
	assert.Equal(t, langid.English, lang)
	assert.Equal(t, 2, d.LoadedModels())
	assert.Equal(t, langid.LanguageSet{langid.English, langid.German}, d.Languages())
	assert.InDelta(t, 0.0, d.MinimumRelativeDistance(), 1e-9)
	assert.Len(t, d.DetectDistribution("die kinder spielten im garten"), 2)

	first := d.Current()
	reloaded := 0
	d.OnReload = func() { reloaded++ }
	require.NoError(t, d.Reload())
	assert.NotSame(t, first, d.Current())
	assert.Equal(t, 1, d.Reloads())
	assert.Equal(t, 1, reloaded)

	// broken model keeps the current detector
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.json.gz"), []byte("bad"), 0o600))
	current := d.Current()
	err = d.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "german")
	assert.Same(t, current, d.Current())
	assert.Equal(t, 1, d.Reloads())
}

func TestNew_Failed(t *testing.T) {
	_, err := New(builder(t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build detector")
}

func TestDetector_Watch(t *testing.T) {
	dir := prepModels(t, langid.English, langid.German)
	d, err := New(builder(dir))
	require.NoError(t, err)
	d.Delay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error)
	go func() { done <- d.Watch(ctx, dir) }()

	time.Sleep(100 * time.Millisecond) // let watcher start
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	copyModel(t, dir, langid.German)

	require.Eventually(t, func() bool { return d.Reloads() >= 1 }, 5*time.Second, 20*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestDetector_WatchMissingDir(t *testing.T) {
	dir := prepModels(t, langid.English, langid.German)
	d, err := New(builder(dir))
	require.NoError(t, err)
	err = d.Watch(context.Background(), filepath.Join(dir, "missing"))
	require.Error(t, err)
}
