package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/pagecap/internal/models"
)

func TestFileStorage_FlushesOnBatchAndOnDemand(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir, nil)
	ctx := context.Background()

	for i := 1; i < batchSize; i++ {
		require.NoError(t, s.AddResult(ctx, models.AnalysisResult{Page: fmt.Sprintf("%04d.png", i), Content: "text"}))
	}
	assert.NoFileExists(t, filepath.Join(dir, ResultsFileName))

	require.NoError(t, s.AddResult(ctx, models.AnalysisResult{Page: "0010.png", Content: "text"}))
	results, err := ReadResults(dir)
	require.NoError(t, err)
	assert.Len(t, results, batchSize)

	require.NoError(t, s.AddResult(ctx, models.AnalysisResult{Page: "0011.png", Content: "last"}))
	require.NoError(t, s.Flush())

	results, err = ReadResults(dir)
	require.NoError(t, err)
	require.Len(t, results, batchSize+1)
	assert.Equal(t, "last", results[batchSize].Content)
}

func TestFileStorage_FlushEmptyIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFileStorage(dir, nil).Flush())
	assert.NoFileExists(t, filepath.Join(dir, ResultsFileName))
}

func TestReadResults_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ResultsFileName), []byte("{"), 0644))

	_, err := ReadResults(dir)
	assert.Error(t, err)
}

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	m := Manifest{
		Mode:     "auto",
		Window:   "Kindle - Dune",
		Key:      "right",
		Trim:     models.TrimSpec{Top: 55},
		Started:  started,
		Finished: started.Add(time.Minute),
		Total:    2,
		Pages: ManifestPages([]models.Page{
			{Number: 1, Path: filepath.Join(dir, "0001.png"), Digest: "aa"},
			{Number: 2, Path: filepath.Join(dir, "0002.png"), Digest: "bb"},
		}),
	}

	require.NoError(t, WriteManifest(dir, m))
	got, err := ReadManifest(dir)
	require.NoError(t, err)

	assert.Equal(t, "0002.png", got.Pages[1].File)
	assert.Equal(t, m.Trim, got.Trim)
	assert.True(t, started.Equal(got.Started))
	assert.Equal(t, 2, got.Total)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.Error(t, err)
}
