package config

const (
	defaultCatalogDir   = "~/.local/share/pxrd/spectra"
	defaultLogFormat    = "console"
	defaultLogLevel     = "warn"
	defaultMaxFileBytes = 5 * 1024 * 1024
	defaultLockWrites   = true
	defaultStrictList   = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
		},
		Catalog: Catalog{
			StrictList: defaultStrictList,
			LockWrites: defaultLockWrites,
		},
		Ingest: Ingest{
			MaxFileBytes: defaultMaxFileBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
