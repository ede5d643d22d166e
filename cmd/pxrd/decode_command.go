package main

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pxrd/internal/decode"
	"pxrd/internal/ingest"
	"pxrd/internal/samples"
)

type decodeView struct {
	File   string          `json:"file"`
	Format decode.Format   `json:"format"`
	Bytes  int             `json:"bytes"`
	Points int             `json:"points"`
	QMin   float64         `json:"q_min"`
	QMax   float64         `json:"q_max"`
	Raw    *decode.RawFile `json:"raw,omitempty"`
}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode an instrument file without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				f   decode.Format
				err error
			)
			if format != "" {
				f, err = decode.ParseFormat(format)
			} else {
				f, err = decode.FormatFromName(path)
			}
			if err != nil {
				return err
			}

			data, err := ingest.ReadFile(path, ctx.config.Ingest.MaxFileBytes)
			if err != nil {
				return err
			}

			view := decodeView{File: filepath.Base(path), Format: f, Bytes: len(data)}
			var smp samples.Samples
			if f == decode.FormatRaw {
				raw, err := decode.ParseRaw(data)
				if err != nil {
					return err
				}
				view.Raw = raw
				smp, err = raw.Samples()
				if err != nil {
					return err
				}
			} else {
				smp, err = decode.DecodeText(bytes.NewReader(data))
				if err != nil {
					return err
				}
			}
			view.Points = smp.Len()
			view.QMin, view.QMax = smp.Range()

			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:    %s (%s, %s)\n", view.File, view.Format, humanize.IBytes(uint64(view.Bytes)))
			if raw := view.Raw; raw != nil {
				fmt.Fprintf(out, "Machine: %s\n", raw.Header.Machine)
				if raw.Header.Title != "" {
					fmt.Fprintf(out, "Title:   %s\n", raw.Header.Title)
				}
				fmt.Fprintf(out, "Tube:    %d kV, %d mA, λ=%.4f Å\n", raw.Header.Kilovoltage, raw.Header.Milliamperage, raw.Header.Wavelength)
				fmt.Fprintf(out, "Scan:    %.3f° to %.3f°, step %.4f°\n", raw.DataInfo.ThetaStart, raw.DataInfo.ThetaEnd, raw.DataInfo.StepSize)
			}
			fmt.Fprintf(out, "Points:  %d\n", view.Points)
			fmt.Fprintf(out, "X range: %.4f to %.4f\n", view.QMin, view.QMax)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Force the input format (xyd or raw)")
	return cmd
}
