package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxrd/internal/catalog"
)

func TestCheckCleanCatalog(t *testing.T) {
	store := openStore(t)
	mustCreate(t, store, newSpectrum("A"))
	mustCreate(t, store, newSpectrum("B"))

	report, err := store.Check()
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Records)
}

func TestCheckReportsOrphansWithoutRepairing(t *testing.T) {
	store := openStore(t)
	mustCreate(t, store, newSpectrum("A"))
	mustCreate(t, store, newSpectrum("B"))
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), "A.xy.zst")))
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), "B.meta")))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "C.meta"), []byte(":"), 0o644))

	report, err := store.Check()
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 0, report.Records)
	require.Len(t, report.Problems, 3)
	assert.Equal(t, catalog.Problem{File: "A.meta", Kind: catalog.ProblemMissingSamples, Detail: "references A.xy.zst"}, report.Problems[0])
	assert.Equal(t, "B.xy.zst", report.Problems[1].File)
	assert.Equal(t, catalog.ProblemUnreferenced, report.Problems[1].Kind)
	assert.Equal(t, "C.meta", report.Problems[2].File)
	assert.Equal(t, catalog.ProblemUnreadable, report.Problems[2].Kind)

	assert.ElementsMatch(t, []string{"A.meta", "B.xy.zst", "C.meta"}, dirEntries(t, store.Dir()))
}
