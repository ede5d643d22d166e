package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxrd/internal/catalog"
	"pxrd/internal/config"
	"pxrd/internal/decode"
	"pxrd/internal/elements"
	"pxrd/internal/ingest"
	"pxrd/internal/metrics"
	"pxrd/internal/testsupport"
)

func newService(t *testing.T, opts ...testsupport.ConfigOption) (*ingest.Service, *catalog.Store, *metrics.Metrics) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	m, err := metrics.New(nil)
	require.NoError(t, err)
	store, err := catalog.Open(cfg.Paths.CatalogDir, catalog.WithMetrics(m))
	require.NoError(t, err)
	return ingest.NewService(store, cfg.Ingest, ingest.WithMetrics(m)), store, m
}

func xydRequest(name string) ingest.Request {
	return ingest.Request{
		Filename: name + ".xyd",
		Data:     []byte(testsupport.XYDText([]float64{1, 2, 3}, []float64{10, 40, 20})),
		Elements: []string{"si", "O"},
	}
}

func TestImportText(t *testing.T) {
	svc, store, _ := newService(t)
	req := xydRequest("quartz")
	req.Tags = []string{"mineral", " mineral ", "", "reference"}
	req.DisplayName = "Quartz"

	sp, err := svc.Import(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "quartz", sp.Name)
	assert.Equal(t, []string{"O", "Si"}, sp.Elements)
	assert.Equal(t, []string{"mineral", "reference"}, sp.Tags)
	assert.Equal(t, "Quartz", sp.ReadableName())

	got, err := store.Get("quartz")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 1, 0.5}, got.Y())
}

func TestImportRawWithExplicitName(t *testing.T) {
	svc, store, m := newService(t)
	sp, err := svc.Import(context.Background(), ingest.Request{
		Filename: "RUN0001.RAW",
		Data:     testsupport.NewPolyIIDump(100, 400, 200).Bytes(),
		Name:     "lfp-cathode",
		Elements: []string{"Li", "Fe", "P", "O"},
	})
	require.NoError(t, err)
	assert.Equal(t, "lfp-cathode", sp.Name)

	loaded, err := store.Get("lfp-cathode")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.7109122, 1.4164140, 2.1111360}, loaded.X(), 1e-5)

	count, err := testutil.GatherAndCount(m.Registry(), "pxrd_decode_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImportDecodeFailureLeavesCatalogUntouched(t *testing.T) {
	svc, store, _ := newService(t)
	dump := testsupport.NewPolyIIDump(1, 2, 3)
	dump.Machine = "FOO"

	_, err := svc.Import(context.Background(), ingest.Request{
		Filename: "bad.raw",
		Data:     dump.Bytes(),
		Elements: []string{"C"},
	})
	require.ErrorIs(t, err, decode.ErrUnsupportedMachine)

	truncated := testsupport.NewPolyIIDump(1, 2, 3).Bytes()
	_, err = svc.Import(context.Background(), ingest.Request{
		Filename: "short.raw",
		Data:     truncated[:len(truncated)-2],
		Elements: []string{"C"},
	})
	require.ErrorIs(t, err, decode.ErrTruncated)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportRequiresElements(t *testing.T) {
	svc, _, _ := newService(t)
	req := xydRequest("quartz")
	req.Elements = nil
	_, err := svc.Import(context.Background(), req)
	assert.ErrorIs(t, err, ingest.ErrValidation)

	req.Elements = []string{"Zz"}
	_, err = svc.Import(context.Background(), req)
	assert.ErrorIs(t, err, ingest.ErrValidation)
	assert.ErrorIs(t, err, elements.ErrUnknownElement)
}

func TestImportRejectsLargeFiles(t *testing.T) {
	svc, _, _ := newService(t, testsupport.WithMaxFileBytes(16))
	_, err := svc.Import(context.Background(), xydRequest("quartz"))
	assert.ErrorIs(t, err, ingest.ErrFileTooLarge)
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	svc, _, _ := newService(t)
	req := xydRequest("quartz")
	req.Filename = "quartz.csv"
	_, err := svc.Import(context.Background(), req)
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)

	req.Format = decode.FormatText
	_, err = svc.Import(context.Background(), req)
	assert.NoError(t, err)
}

func TestImportNameCollision(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Import(context.Background(), xydRequest("quartz"))
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), xydRequest("quartz"))
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)
}

func TestImportInvalidName(t *testing.T) {
	svc, _, _ := newService(t)
	req := xydRequest("quartz")
	req.Name = "has space"
	_, err := svc.Import(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrInvalidName)
}

func TestImportAll(t *testing.T) {
	svc, store, _ := newService(t)
	badDump := testsupport.NewPolyIIDump(1, 2)
	badDump.Machine = "FOO"

	reqs := []ingest.Request{
		xydRequest("a"),
		{Filename: "b.raw", Data: badDump.Bytes(), Elements: []string{"C"}},
		{Filename: "c.raw", Data: testsupport.NewPolyIIDump(5, 6).Bytes(), Elements: []string{"C"}},
		{Filename: "d.xyd", Data: []byte("1 1\n")},
	}
	results := svc.ImportAll(context.Background(), reqs)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "a", results[0].Spectrum.Name)
	assert.ErrorIs(t, results[1].Err, decode.ErrUnsupportedMachine)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "c", results[2].Spectrum.Name)
	assert.ErrorIs(t, results[3].Err, ingest.ErrValidation)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestDecodeAllPreservesOrder(t *testing.T) {
	svc, _, _ := newService(t, testsupport.WithConfigMutation(func(c *config.Config) { c.Ingest.Workers = 3 }))

	var files []ingest.File
	for i := 1; i <= 12; i++ {
		counts := make([]int32, i)
		for j := range counts {
			counts[j] = int32(j + 1)
		}
		files = append(files, ingest.File{Name: filepath.Join("in", "f.raw"), Data: testsupport.NewPolyIIDump(counts...).Bytes()})
	}
	files = append(files, ingest.File{Name: "x.xyd", Format: decode.FormatText, Data: []byte("nope\n")})

	results := svc.DecodeAll(context.Background(), files)
	require.Len(t, results, len(files))
	for i := 0; i < 12; i++ {
		require.NoError(t, results[i].Err)
		assert.Equal(t, i+1, results[i].Samples.Len())
	}
	assert.ErrorIs(t, results[12].Err, decode.ErrFormat)
}

func TestDecodeAllHonoursCancellation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.DecodeAll(ctx, []ingest.File{{Name: "a.xyd", Data: []byte("1 1\n")}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.raw")
	testsupport.WriteFile(t, path, 64)

	data, err := ingest.ReadFile(path, 64)
	require.NoError(t, err)
	assert.Len(t, data, 64)

	_, err = ingest.ReadFile(path, 63)
	assert.ErrorIs(t, err, ingest.ErrFileTooLarge)

	_, err = ingest.ReadFile(filepath.Join(dir, "missing.raw"), 64)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
