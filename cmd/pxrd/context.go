package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pxrd/internal/catalog"
	"pxrd/internal/config"
	"pxrd/internal/ingest"
	"pxrd/internal/logging"
	"pxrd/internal/metrics"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	runtimeOnce sync.Once
	logger      *slog.Logger
	metrics     *metrics.Metrics
	store       *catalog.Store
	runtimeErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureRuntime builds the logger, metrics and store shared by commands.
func (c *commandContext) ensureRuntime() error {
	c.runtimeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runtimeErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.runtimeErr = fmt.Errorf("init logging: %w", err)
			return
		}
		m, err := metrics.New(nil)
		if err != nil {
			c.runtimeErr = err
			return
		}
		store, err := catalog.Open(cfg.Paths.CatalogDir,
			catalog.WithLogger(logger),
			catalog.WithMetrics(m),
			catalog.WithStrictList(cfg.Catalog.StrictList))
		if err != nil {
			c.runtimeErr = err
			return
		}
		c.logger = logger
		c.metrics = m
		c.store = store
	})
	return c.runtimeErr
}

func (c *commandContext) catalogStore() (*catalog.Store, error) {
	if err := c.ensureRuntime(); err != nil {
		return nil, err
	}
	return c.store, nil
}

func (c *commandContext) ingestService() (*ingest.Service, error) {
	if err := c.ensureRuntime(); err != nil {
		return nil, err
	}
	return ingest.NewService(c.store, c.config.Ingest,
		ingest.WithLogger(c.logger),
		ingest.WithMetrics(c.metrics)), nil
}

// withWriteLock runs fn while holding the catalog writer lock when the
// configuration asks for it.
func (c *commandContext) withWriteLock(fn func(*catalog.Store) error) error {
	store, err := c.catalogStore()
	if err != nil {
		return err
	}
	if !c.config.Catalog.LockWrites {
		return fn(store)
	}
	lock, err := catalog.Lock(store.Dir())
	if err != nil {
		if errors.Is(err, catalog.ErrLocked) {
			return fmt.Errorf("%w; retry once the other pxrd command has finished", err)
		}
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			c.logger.Warn("release catalog lock", logging.Error(unlockErr))
		}
	}()
	return fn(store)
}

func (c *commandContext) flushMetrics() error {
	if c.metrics == nil || c.config == nil {
		return nil
	}
	return c.metrics.WriteTextfile(c.config.Metrics.Textfile)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
