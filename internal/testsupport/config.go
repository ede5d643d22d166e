package testsupport

import (
	"path/filepath"
	"testing"

	"pxrd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogDir = filepath.Join(base, "spectra")
	cfgVal.Paths.LogDir = ""
	cfgVal.Ingest.Workers = 2

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStrictList makes catalog listings fail on the first bad descriptor.
func WithStrictList() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.StrictList = true
	}
}

// WithMaxFileBytes overrides the import size limit.
func WithMaxFileBytes(n int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.MaxFileBytes = n
	}
}

// WithLogDir places the log directory under the test's temp base.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithConfigMutation applies arbitrary changes to the config.
func WithConfigMutation(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		if fn != nil {
			fn(b.cfg)
		}
	}
}
