package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxrd/internal/catalog"
)

func TestWriterLockIsExclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := catalog.Lock(dir)
	require.NoError(t, err)

	_, err = catalog.Lock(dir)
	require.ErrorIs(t, err, catalog.ErrLocked)

	require.NoError(t, first.Unlock())
	second, err := catalog.Lock(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Unlock())

	var none *catalog.WriterLock
	assert.NoError(t, none.Unlock())
}

func TestLockFileIsIgnoredByStore(t *testing.T) {
	store := openStore(t)
	lock, err := catalog.Lock(store.Dir())
	require.NoError(t, err)
	defer lock.Unlock()

	mustCreate(t, store, newSpectrum("A"))
	list, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(list))

	report, err := store.Check()
	require.NoError(t, err)
	assert.True(t, report.OK())
}
