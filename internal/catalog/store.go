package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"

	"pxrd/internal/elements"
	"pxrd/internal/fileutil"
	"pxrd/internal/logging"
	"pxrd/internal/metrics"
	"pxrd/internal/samples"
	"pxrd/internal/textutil"
)

const listCacheKey = "spectra"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics records store operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithStrictList makes List fail on the first unreadable or orphaned
// descriptor instead of logging and skipping it.
func WithStrictList(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// NewSpectrum holds everything needed to create a catalog record.
type NewSpectrum struct {
	Name        string
	DisplayName string
	Description string
	Elements    []string
	Tags        []string
	Samples     samples.Samples
}

// Update lists the fields an edit changes. Nil fields are left as they are;
// a non-nil pointer to an empty value clears the field.
type Update struct {
	Name        *string
	DisplayName *string
	Description *string
	Elements    *[]string
	Tags        *[]string
}

// Store is a directory-backed catalog of spectra.
type Store struct {
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
	strict  bool

	mu    sync.RWMutex
	cache *cache.Cache
}

// Open prepares dir as a catalog, creating it if needed.
func Open(dir string, opts ...Option) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("catalog directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	s := &Store{
		dir:   dir,
		cache: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "catalog")
	return s, nil
}

// Dir returns the catalog directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) descriptorPath(name string) string {
	return filepath.Join(s.dir, descriptorFileName(name))
}

// invalidate drops the memoised listing. Callers hold the write lock.
func (s *Store) invalidate() {
	s.cache.Flush()
}

// List returns every readable record sorted by name. The result is memoised
// until the next mutation through this Store.
func (s *Store) List() (_ []*Spectrum, err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpList, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if cached, ok := s.cache.Get(listCacheKey); ok {
		return spectraFrom(s.dir, cached.([]Descriptor)), nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}
	var out []Descriptor
	for _, entry := range entries {
		if !isDescriptorEntry(entry) {
			continue
		}
		spectrum, loadErr := s.load(strings.TrimSuffix(entry.Name(), descriptorExt))
		if loadErr != nil {
			if s.strict {
				return nil, loadErr
			}
			logging.WarnWithContext(s.logger, "skipping unreadable catalog record", "descriptor_skipped",
				logging.String("file", entry.Name()),
				logging.Error(loadErr),
				logging.String(logging.FieldErrorHint, "run pxrd check to list damaged records"),
				logging.String(logging.FieldImpact, "spectrum is hidden from listings"))
			continue
		}
		out = append(out, spectrum.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	s.cache.Set(listCacheKey, out, cache.NoExpiration)
	s.metrics.SetCatalogSize(len(out))
	return spectraFrom(s.dir, out), nil
}

// spectraFrom builds fresh records so callers never share the memo's state.
func spectraFrom(dir string, descriptors []Descriptor) []*Spectrum {
	out := make([]*Spectrum, len(descriptors))
	for i, d := range descriptors {
		out[i] = newSpectrum(dir, d)
	}
	return out
}

func isDescriptorEntry(entry fs.DirEntry) bool {
	name := entry.Name()
	return entry.Type().IsRegular() && !strings.HasPrefix(name, ".") && strings.HasSuffix(name, descriptorExt)
}

// load reads one record and verifies its sample file is present.
func (s *Store) load(name string) (*Spectrum, error) {
	d, err := readDescriptor(s.descriptorPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read descriptor %s: %w", name, err)
	}
	ok, err := fileutil.Exists(filepath.Join(s.dir, d.SampleFile))
	if err != nil {
		return nil, fmt.Errorf("stat sample file %s: %w", d.SampleFile, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s references missing sample file %s", ErrOrphanRecord, name, d.SampleFile)
	}
	return newSpectrum(s.dir, d), nil
}

// Get returns the record called name.
func (s *Store) Get(name string) (_ *Spectrum, err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpGet, err) }()
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(name)
}

// Create persists a new record. The sample container is written first and
// the descriptor last; a failed descriptor write removes the container again.
func (s *Store) Create(req NewSpectrum) (_ *Spectrum, err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpCreate, err) }()

	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}
	if err := req.Samples.Validate(); err != nil {
		return nil, fmt.Errorf("create %s: %w", req.Name, err)
	}
	symbols, err := normalizeElements(req.Elements)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", req.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.invalidate()

	descPath := s.descriptorPath(req.Name)
	samplePath := filepath.Join(s.dir, sampleFileName(req.Name))
	for _, path := range []string{descPath, samplePath} {
		exists, statErr := fileutil.Exists(path)
		if statErr != nil {
			return nil, fmt.Errorf("create %s: %w", req.Name, statErr)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.Name)
		}
	}

	if err := samples.CreateFile(samplePath, req.Samples); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.Name)
		}
		return nil, fmt.Errorf("write samples for %s: %w", req.Name, err)
	}

	d := Descriptor{
		Name:        req.Name,
		SampleFile:  sampleFileName(req.Name),
		Elements:    symbols,
		Tags:        textutil.NormalizeTags(req.Tags),
		Description: req.Description,
		DisplayName: req.DisplayName,
	}
	if err := createDescriptor(descPath, d); err != nil {
		if rmErr := os.Remove(samplePath); rmErr != nil {
			logging.WarnWithContext(s.logger, "failed to remove sample file after aborted create", "create_cleanup_failed",
				logging.Spectrum(req.Name),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "delete "+samplePath+" by hand"),
				logging.String(logging.FieldImpact, "an unreferenced sample file remains in the catalog directory"))
		}
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.Name)
		}
		return nil, fmt.Errorf("write descriptor for %s: %w", req.Name, err)
	}

	s.logger.Info("spectrum created",
		logging.Spectrum(req.Name),
		logging.Int("points", req.Samples.Len()),
		logging.String(logging.FieldEventType, "spectrum_created"))
	return newSpectrum(s.dir, d), nil
}

// Edit applies u to the record called name and returns the updated record.
func (s *Store) Edit(name string, u Update) (_ *Spectrum, err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpEdit, err) }()

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if u.Name != nil {
		if err := ValidateName(*u.Name); err != nil {
			return nil, err
		}
	}
	var symbols []string
	if u.Elements != nil {
		if symbols, err = normalizeElements(*u.Elements); err != nil {
			return nil, fmt.Errorf("edit %s: %w", name, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.invalidate()

	current, err := s.load(name)
	if err != nil {
		return nil, err
	}
	d := current.Descriptor()
	if u.DisplayName != nil {
		d.DisplayName = *u.DisplayName
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Elements != nil {
		d.Elements = symbols
	}
	if u.Tags != nil {
		d.Tags = textutil.NormalizeTags(*u.Tags)
	}

	if u.Name == nil || *u.Name == name {
		if err := writeDescriptor(s.descriptorPath(name), d); err != nil {
			return nil, fmt.Errorf("write descriptor for %s: %w", name, err)
		}
		s.logger.Info("spectrum updated", logging.Spectrum(name),
			logging.String(logging.FieldEventType, "spectrum_updated"))
		return newSpectrum(s.dir, d), nil
	}

	renamed, err := s.rename(d, *u.Name)
	if err != nil {
		return nil, err
	}
	return newSpectrum(s.dir, renamed), nil
}

// rename moves the sample file and the descriptor of d to newName. The
// sample file moves first; later failures try to move it back.
func (s *Store) rename(d Descriptor, newName string) (Descriptor, error) {
	oldName := d.Name
	oldSample := filepath.Join(s.dir, d.SampleFile)
	newSample := filepath.Join(s.dir, sampleFileName(newName))
	newDesc := s.descriptorPath(newName)

	for _, path := range []string{newDesc, newSample} {
		exists, err := fileutil.Exists(path)
		if err != nil {
			return Descriptor{}, fmt.Errorf("rename %s: %w", oldName, err)
		}
		if exists {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
		}
	}

	if err := fileutil.RenameNoReplace(oldSample, newSample); err != nil {
		switch {
		case errors.Is(err, fs.ErrExist):
			return Descriptor{}, fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
		case errors.Is(err, fs.ErrNotExist):
			return Descriptor{}, fmt.Errorf("%w: %s references missing sample file %s", ErrOrphanRecord, oldName, d.SampleFile)
		}
		return Descriptor{}, fmt.Errorf("rename sample file of %s: %w", oldName, err)
	}

	d.Name = newName
	d.SampleFile = sampleFileName(newName)
	if err := createDescriptor(newDesc, d); err != nil {
		return Descriptor{}, s.rollbackRename(oldName, newSample, oldSample, fmt.Errorf("write descriptor for %s: %w", newName, err))
	}
	if err := os.Remove(s.descriptorPath(oldName)); err != nil {
		cause := fmt.Errorf("remove descriptor of %s: %w", oldName, err)
		if rmErr := os.Remove(newDesc); rmErr != nil {
			return Descriptor{}, fmt.Errorf("%w: %s and %s both have descriptors: %w", ErrOrphanRecord, oldName, newName, cause)
		}
		return Descriptor{}, s.rollbackRename(oldName, newSample, oldSample, cause)
	}

	s.logger.Info("spectrum renamed",
		logging.Spectrum(newName),
		logging.String("previous_name", oldName),
		logging.String(logging.FieldEventType, "spectrum_renamed"))
	return d, nil
}

func (s *Store) rollbackRename(name, from, to string, cause error) error {
	if err := fileutil.RenameNoReplace(from, to); err != nil {
		logging.ErrorWithContext(s.logger, "rename rollback failed", "rename_rollback_failed",
			logging.Spectrum(name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "move "+from+" back to "+to+" by hand"))
		return fmt.Errorf("%w: %s lost its sample file during rename: %w", ErrOrphanRecord, name, cause)
	}
	return cause
}

// Delete removes the record called name. Both files must be present; a
// missing half is reported as ErrNotFound rather than silently ignored.
func (s *Store) Delete(name string) (err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpDelete, err) }()

	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.invalidate()

	descPath := s.descriptorPath(name)
	d, err := readDescriptor(descPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%w: descriptor of %s is unreadable: %w", ErrOrphanRecord, name, err)
	}
	samplePath := filepath.Join(s.dir, d.SampleFile)
	exists, err := fileutil.Exists(samplePath)
	if err != nil {
		return fmt.Errorf("stat sample file %s: %w", d.SampleFile, err)
	}
	if !exists {
		return fmt.Errorf("%w: sample file %s of %s is missing: %w", ErrNotFound, d.SampleFile, name, ErrOrphanRecord)
	}

	if err := os.Remove(descPath); err != nil {
		return fmt.Errorf("remove descriptor of %s: %w", name, err)
	}
	if err := os.Remove(samplePath); err != nil {
		return fmt.Errorf("%w: descriptor of %s removed but sample file remains: %w", ErrOrphanRecord, name, err)
	}

	s.logger.Info("spectrum deleted", logging.Spectrum(name),
		logging.String(logging.FieldEventType, "spectrum_deleted"))
	return nil
}

// UsedTags returns the sorted union of tags across all listed records.
func (s *Store) UsedTags() ([]string, error) {
	spectra, err := s.List()
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, sp := range spectra {
		tags = append(tags, sp.Tags...)
	}
	return sortedUnique(tags), nil
}

// normalizeElements canonicalises symbols against the periodic table.
func normalizeElements(symbols []string) ([]string, error) {
	out, err := elements.NormalizeSet(symbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}
	return out, nil
}

func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		return []string{}
	}
	return out
}
