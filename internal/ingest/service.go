package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"pxrd/internal/catalog"
	"pxrd/internal/config"
	"pxrd/internal/decode"
	"pxrd/internal/elements"
	"pxrd/internal/logging"
	"pxrd/internal/metrics"
	"pxrd/internal/samples"
	"pxrd/internal/textutil"
)

var (
	// ErrValidation reports an import request that is missing required metadata.
	ErrValidation = errors.New("invalid import request")
	// ErrFileTooLarge reports an input above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Request describes one file to import and the metadata to attach.
type Request struct {
	Filename    string
	Format      decode.Format // derived from Filename when empty
	Data        []byte
	Name        string // derived from Filename when empty
	DisplayName string
	Description string
	Elements    []string
	Tags        []string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records decode timings on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service decodes instrument files and saves them to a catalog store.
type Service struct {
	store   *catalog.Store
	cfg     config.Ingest
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService wires a service around store. Zero limits fall back to the
// configuration defaults.
func NewService(store *catalog.Store, cfg config.Ingest, opts ...Option) *Service {
	defaults := config.Default().Ingest
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = defaults.MaxFileBytes
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	s := &Service{store: store, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "ingest")
	return s
}

// Import validates req, decodes its data, and creates the catalog record.
// Nothing is written when validation or decoding fails.
func (s *Service) Import(ctx context.Context, req Request) (*catalog.Spectrum, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)

	prepared, err := s.prepare(req)
	if err != nil {
		logger.Info("import rejected",
			logging.String("file", req.Filename),
			logging.Error(err),
			logging.String(logging.FieldEventType, "import_rejected"))
		return nil, err
	}
	smp, err := s.decode(ctx, logger, prepared.file)
	if err != nil {
		return nil, err
	}
	return s.save(logger, prepared, smp)
}

// ImportResult is the outcome of one request passed to ImportAll.
type ImportResult struct {
	Request  Request
	Spectrum *catalog.Spectrum
	Err      error
}

// ImportAll validates every request, decodes the valid ones in parallel, and
// saves the successfully decoded ones in input order. Each request succeeds
// or fails on its own.
func (s *Service) ImportAll(ctx context.Context, reqs []Request) []ImportResult {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)

	results := make([]ImportResult, len(reqs))
	prepared := make([]preparedRequest, len(reqs))
	var files []File
	var index []int
	for i, req := range reqs {
		results[i].Request = req
		p, err := s.prepare(req)
		if err != nil {
			results[i].Err = err
			continue
		}
		prepared[i] = p
		files = append(files, p.file)
		index = append(index, i)
	}

	decoded := s.DecodeAll(ctx, files)
	for j, res := range decoded {
		i := index[j]
		if res.Err != nil {
			results[i].Err = res.Err
			continue
		}
		results[i].Spectrum, results[i].Err = s.save(logger, prepared[i], res.Samples)
	}
	return results
}

type preparedRequest struct {
	file     File
	spectrum catalog.NewSpectrum
}

func (s *Service) prepare(req Request) (preparedRequest, error) {
	if size := int64(len(req.Data)); size > s.cfg.MaxFileBytes {
		return preparedRequest{}, fmt.Errorf("%w: %s is %s, limit is %s", ErrFileTooLarge,
			displayFile(req.Filename), humanize.IBytes(uint64(size)), humanize.IBytes(uint64(s.cfg.MaxFileBytes)))
	}

	name := req.Name
	if name == "" {
		name = textutil.SpectrumName(req.Filename)
	}
	if err := catalog.ValidateName(name); err != nil {
		return preparedRequest{}, err
	}

	symbols, err := elements.NormalizeSet(req.Elements)
	if err != nil {
		return preparedRequest{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if len(symbols) == 0 {
		return preparedRequest{}, fmt.Errorf("%w: at least one contained element is required", ErrValidation)
	}

	format := req.Format
	if format == "" {
		format, err = decode.FormatFromName(req.Filename)
	} else {
		format, err = decode.ParseFormat(string(format))
	}
	if err != nil {
		return preparedRequest{}, err
	}

	return preparedRequest{
		file: File{Name: req.Filename, Format: format, Data: req.Data},
		spectrum: catalog.NewSpectrum{
			Name:        name,
			DisplayName: req.DisplayName,
			Description: req.Description,
			Elements:    symbols,
			Tags:        textutil.NormalizeTags(req.Tags),
		},
	}, nil
}

func (s *Service) save(logger *slog.Logger, p preparedRequest, smp samples.Samples) (*catalog.Spectrum, error) {
	p.spectrum.Samples = smp
	sp, err := s.store.Create(p.spectrum)
	if err != nil {
		logging.WarnWithContext(logger, "spectrum not saved", "import_save_failed",
			logging.Spectrum(p.spectrum.Name),
			logging.String("file", p.file.Name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "choose another name or run pxrd check"),
			logging.String(logging.FieldImpact, "the file was decoded but not added to the catalog"))
		return nil, err
	}
	logger.Info("spectrum imported",
		logging.Spectrum(sp.Name),
		logging.String("file", p.file.Name),
		logging.String(logging.FieldFormat, string(p.file.Format)),
		logging.Int("points", smp.Len()),
		logging.String(logging.FieldEventType, "spectrum_imported"))
	return sp, nil
}

func (s *Service) decode(ctx context.Context, logger *slog.Logger, f File) (samples.Samples, error) {
	if err := ctx.Err(); err != nil {
		return samples.Samples{}, err
	}
	start := time.Now()
	smp, err := decode.Decode(f.Format, bytes.NewReader(f.Data))
	elapsed := time.Since(start)
	s.metrics.ObserveDecode(string(f.Format), elapsed, err)
	if err != nil {
		logging.WarnWithContext(logger, "decode failed", "decode_failed",
			logging.String("file", f.Name),
			logging.String(logging.FieldFormat, string(f.Format)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file matches its extension"),
			logging.String(logging.FieldImpact, "file was not imported"))
		return samples.Samples{}, fmt.Errorf("decode %s: %w", displayFile(f.Name), err)
	}
	logger.Debug("decoded file",
		logging.String("file", f.Name),
		logging.String(logging.FieldFormat, string(f.Format)),
		logging.Int("points", smp.Len()),
		logging.Int64("bytes", int64(len(f.Data))),
		logging.Duration("elapsed", elapsed))
	return smp, nil
}

// ReadFile loads path for import, refusing files above maxBytes without
// reading them completely.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, filepath.Base(path), humanize.IBytes(uint64(maxBytes)))
	}
	return data, nil
}

func displayFile(name string) string {
	if name == "" {
		return "input"
	}
	return filepath.Base(name)
}
