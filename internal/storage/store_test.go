package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/metrics"
	"github.com/san-kum/freefall/internal/sim"
)

func saveRun(t *testing.T, st *Store, h, m float64) (string, *dynamo.Series) {
	t.Helper()
	series, err := sim.NewEvaluator().Sample(context.Background(), dynamo.Scenario{Height: h, Mass: m}, 20)
	require.NoError(t, err)

	runID, err := st.Save(series, metrics.Analyze(series, dynamo.ConservationTolerance), "energia.png")
	require.NoError(t, err)
	return runID, series
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, series := saveRun(t, st, 10, 1)
	assert.True(t, strings.HasPrefix(runID, "h10.0_m1.0_"), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, series.Scenario, meta.Scenario)
	assert.Equal(t, 20, meta.Samples)
	assert.Equal(t, "energia.png", meta.Figure)
	assert.True(t, meta.Diagnostics.Conserved)
	assert.InDelta(t, 98.0, meta.Diagnostics.InitialEnergy, 1e-9)

	loaded, err := st.LoadSeries(runID)
	require.NoError(t, err)
	require.Equal(t, series.Len(), loaded.Len())
	assert.InDelta(t, series.ImpactTime, loaded.ImpactTime, 1e-12)
	for i := range series.Samples {
		assert.InDelta(t, series.Samples[i].Mechanical, loaded.Samples[i].Mechanical, 1e-6)
		assert.InDelta(t, series.Samples[i].Y, loaded.Samples[i].Y, 1e-6)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, _ := saveRun(t, st, 1, 1)
	second, _ := saveRun(t, st, 1, 1)
	assert.NotEqual(t, first, second, "identical scenarios must get distinct ids")

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, _ := saveRun(t, st, 3, 2)

	for _, name := range []string{metadataFile, seriesFile} {
		_, err := os.Stat(filepath.Join(dir, runID, name))
		assert.NoError(t, err, name)
	}
}

func TestLoadSeriesCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, _ := saveRun(t, st, 3, 2)
	path := filepath.Join(dir, runID, seriesFile)
	require.NoError(t, os.WriteFile(path, []byte("t,y,v,ec,ep,em\n0,1,2\n"), 0644))

	_, err := st.LoadSeries(runID)
	assert.Error(t, err)

	_, err = st.Load("missing")
	assert.Error(t, err)
}
