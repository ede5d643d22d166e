package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pxrd/internal/catalog"
	"pxrd/internal/decode"
	"pxrd/internal/ingest"
)

type importResultView struct {
	File     string        `json:"file"`
	Spectrum *spectrumView `json:"spectrum,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var name, displayName, description, format string
	var elementList, tags []string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Decode instrument files and add them to the catalog",
		Long: "Decode .xyd or .raw files and add each as a new spectrum. Files are\n" +
			"decoded in parallel; nothing is saved for a file that fails to decode.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return errors.New("--name can only be used when importing a single file")
			}
			var forced decode.Format
			if format != "" {
				f, err := decode.ParseFormat(format)
				if err != nil {
					return err
				}
				forced = f
			}
			svc, err := ctx.ingestService()
			if err != nil {
				return err
			}

			reqs := make([]ingest.Request, 0, len(args))
			for _, path := range args {
				data, err := ingest.ReadFile(path, ctx.config.Ingest.MaxFileBytes)
				if err != nil {
					return err
				}
				reqs = append(reqs, ingest.Request{
					Filename:    filepath.Base(path),
					Format:      forced,
					Data:        data,
					Name:        name,
					DisplayName: displayName,
					Description: description,
					Elements:    elementList,
					Tags:        tags,
				})
			}

			var results []ingest.ImportResult
			err = ctx.withWriteLock(func(*catalog.Store) error {
				results = svc.ImportAll(cmd.Context(), reqs)
				return nil
			})
			if err != nil {
				return err
			}
			return reportImports(cmd, ctx, args, results)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Catalog name (defaults to the file name without extension)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Human-readable label")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().StringSliceVarP(&elementList, "element", "e", nil, "Contained element symbol (repeatable, at least one)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xyd or raw)")
	return cmd
}

func reportImports(cmd *cobra.Command, ctx *commandContext, paths []string, results []ingest.ImportResult) error {
	failed := 0
	views := make([]importResultView, len(results))
	for i, res := range results {
		views[i].File = paths[i]
		if res.Err != nil {
			failed++
			views[i].Error = res.Err.Error()
			continue
		}
		v := newSpectrumView(res.Spectrum)
		views[i].Spectrum = &v
	}

	if ctx.jsonOutput() {
		if err := writeJSON(cmd, views); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, v := range views {
			if v.Error != "" {
				fmt.Fprintf(out, "FAILED  %s: %s\n", v.File, v.Error)
				continue
			}
			fmt.Fprintf(out, "Imported %s as %s\n", v.File, v.Spectrum.Name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(results))
	}
	return nil
}
