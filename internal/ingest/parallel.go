package ingest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pxrd/internal/decode"
	"pxrd/internal/logging"
	"pxrd/internal/samples"
)

// File is one input handed to DecodeAll.
type File struct {
	Name   string
	Format decode.Format
	Data   []byte
}

// Result pairs a decoded file with its samples or its error.
type Result struct {
	File    File
	Samples samples.Samples
	Err     error
}

// DecodeAll decodes files concurrently, at most cfg.Workers at a time. The
// result slice matches files by index and one failure never cancels the
// others; only ctx cancellation stops pending work.
func (s *Service) DecodeAll(ctx context.Context, files []File) []Result {
	results := make([]Result, len(files))
	logger := logging.WithContext(ctx, s.logger)

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, f := range files {
		results[i].File = f
		g.Go(func() error {
			results[i].Samples, results[i].Err = s.decodeFile(ctx, logger, f)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) decodeFile(ctx context.Context, logger *slog.Logger, f File) (samples.Samples, error) {
	if f.Format == "" {
		format, err := decode.FormatFromName(f.Name)
		if err != nil {
			return samples.Samples{}, err
		}
		f.Format = format
	}
	return s.decode(ctx, logger, f)
}
