package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCatalog opens a catalog in a temp directory.
func createTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err, "should create catalog")
	t.Cleanup(func() { cat.Close() })
	return cat
}

// TestOpen_InitializesSchema verifies a fresh catalog is queryable
func TestOpen_InitializesSchema(t *testing.T) {
	cat := createTestCatalog(t)

	runs, err := cat.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs, "new catalog should have no runs")

	count, err := cat.CountSightings()
	require.NoError(t, err)
	assert.Zero(t, count)
}

// TestRunLifecycle verifies start/finish and the recency ordering
func TestRunLifecycle(t *testing.T) {
	cat := createTestCatalog(t)

	first, err := cat.StartRun("scrape")
	require.NoError(t, err)
	second, err := cat.StartRun("upload")
	require.NoError(t, err)

	require.NoError(t, cat.FinishRun(first, 5, 4))

	runs, err := cat.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Most recently started first; the unfinished run has no
	// finished_at.
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "upload", runs[0].Kind)
	assert.Nil(t, runs[0].FinishedAt)

	assert.Equal(t, first, runs[1].ID)
	require.NotNil(t, runs[1].FinishedAt)
	assert.Equal(t, 5, runs[1].Found)
	assert.Equal(t, 4, runs[1].Succeeded)
}

// TestRecentRuns_Limit verifies truncation
func TestRecentRuns_Limit(t *testing.T) {
	cat := createTestCatalog(t)
	for i := 0; i < 3; i++ {
		_, err := cat.StartRun("scrape")
		require.NoError(t, err)
	}

	runs, err := cat.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

// TestRecordSighting_Upsert verifies a URL is counted once across
// repeat scrapes
func TestRecordSighting_Upsert(t *testing.T) {
	cat := createTestCatalog(t)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cat.RecordSighting("https://rfi.example/ep", date, "data/2024-03-15-a"))
	require.NoError(t, cat.RecordSighting("https://rfi.example/ep", date, "data/2024-03-15-a"))
	require.NoError(t, cat.RecordSighting("https://rfi.example/autre", date, "data/2024-03-15-b"))

	count, err := cat.CountSightings()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
