package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxrd/internal/catalog"
	"pxrd/internal/samples"
)

func TestSamplesLoadOnceAndNeverRefresh(t *testing.T) {
	store := openStore(t)
	mustCreate(t, store, newSpectrum("quartz"))
	sp, err := store.Get("quartz")
	require.NoError(t, err)

	first, err := sp.Samples()
	require.NoError(t, err)

	// Replace the container on disk; the loaded object keeps its copy.
	path := filepath.Join(store.Dir(), sp.SampleFile())
	require.NoError(t, os.Remove(path))
	require.NoError(t, samples.CreateFile(path, samples.Samples{X: []float64{9}, Y: []float64{1}}))

	second, err := sp.Samples()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh, err := store.Get("quartz")
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, fresh.X())
}

func TestSamplesCachesLoadError(t *testing.T) {
	store := openStore(t)
	mustCreate(t, store, newSpectrum("quartz"))
	sp, err := store.Get("quartz")
	require.NoError(t, err)

	path := filepath.Join(store.Dir(), sp.SampleFile())
	require.NoError(t, os.WriteFile(path+".bak", nil, 0o644))
	require.NoError(t, os.Rename(path+".bak", path))

	_, err = sp.Samples()
	require.Error(t, err)
	assert.True(t, sp.Loaded())
	assert.Nil(t, sp.X())

	// Restoring a valid file does not help an object that already failed.
	require.NoError(t, os.Remove(path))
	require.NoError(t, samples.CreateFile(path, testSamples()))
	_, err = sp.Samples()
	assert.Error(t, err)
}

func TestSamplesReturnsCopy(t *testing.T) {
	store := openStore(t)
	sp := mustCreate(t, store, newSpectrum("quartz"))

	smp, err := sp.Samples()
	require.NoError(t, err)
	smp.Y[0] = 42

	again, err := sp.Samples()
	require.NoError(t, err)
	assert.Equal(t, 0.25, again.Y[0])
}

func TestEqualUsesIdentity(t *testing.T) {
	store := openStore(t)
	a := mustCreate(t, store, newSpectrum("A"))
	again, err := store.Get("A")
	require.NoError(t, err)
	assert.True(t, a.Equal(again))

	edited, err := store.Edit("A", catalog.Update{Description: ptr("changed")})
	require.NoError(t, err)
	assert.True(t, a.Equal(edited), "metadata changes do not change identity")

	b := mustCreate(t, store, newSpectrum("B"))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestReadableName(t *testing.T) {
	store := openStore(t)
	plain := mustCreate(t, store, newSpectrum("plain"))
	assert.Equal(t, "plain", plain.ReadableName())

	req := newSpectrum("labelled")
	req.DisplayName = "Labelled sample"
	labelled := mustCreate(t, store, req)
	assert.Equal(t, "Labelled sample", labelled.ReadableName())
}
