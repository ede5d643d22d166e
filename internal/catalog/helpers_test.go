package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pxrd/internal/catalog"
	"pxrd/internal/samples"
)

func openStore(t *testing.T, opts ...catalog.Option) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "spectra"), opts...)
	require.NoError(t, err)
	return store
}

func testSamples() samples.Samples {
	return samples.Samples{X: []float64{0.71, 1.41, 2.11}, Y: []float64{0.25, 1, 0.5}}
}

func newSpectrum(name string) catalog.NewSpectrum {
	return catalog.NewSpectrum{
		Name:     name,
		Elements: []string{"Si", "O"},
		Tags:     []string{"mineral"},
		Samples:  testSamples(),
	}
}

func mustCreate(t *testing.T, store *catalog.Store, req catalog.NewSpectrum) *catalog.Spectrum {
	t.Helper()
	sp, err := store.Create(req)
	require.NoError(t, err)
	return sp
}

func names(spectra []*catalog.Spectrum) []string {
	out := make([]string, 0, len(spectra))
	for _, sp := range spectra {
		out = append(out, sp.Name)
	}
	return out
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func ptr[T any](v T) *T { return &v }
