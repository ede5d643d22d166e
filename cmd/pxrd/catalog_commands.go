package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pxrd/internal/catalog"
	"pxrd/internal/elements"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var tag, element string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog spectra",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if element != "" {
				symbol, err := elements.Normalize(element)
				if err != nil {
					return err
				}
				element = symbol
			}
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			spectra, err := store.List()
			if err != nil {
				return err
			}

			views := make([]spectrumView, 0, len(spectra))
			for _, sp := range spectra {
				if tag != "" && !sp.HasTag(tag) {
					continue
				}
				if element != "" && !sp.HasElement(element) {
					continue
				}
				views = append(views, newSpectrumView(sp))
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No spectra found")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				label := v.DisplayName
				if label == "" {
					label = "-"
				}
				rows = append(rows, []string{v.Name, label, joinOrDash(v.Elements), joinOrDash(v.Tags)})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Name", "Display name", "Elements", "Tags"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only show spectra with this tag")
	cmd.Flags().StringVar(&element, "element", "", "Only show spectra containing this element")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one spectrum's metadata and sample summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			sp, err := store.Get(args[0])
			if err != nil {
				return err
			}
			view, err := newSpectrumView(sp).withSampleDetails(store, sp)
			if err != nil {
				return fmt.Errorf("load samples of %s: %w", sp.Name, err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:         %s\n", view.Name)
			fmt.Fprintf(out, "Display name: %s\n", sp.ReadableName())
			fmt.Fprintf(out, "Description:  %s\n", view.Description)
			fmt.Fprintf(out, "Elements:     %s\n", joinOrDash(view.Elements))
			fmt.Fprintf(out, "Tags:         %s\n", joinOrDash(view.Tags))
			fmt.Fprintf(out, "Sample file:  %s (%s)\n", view.SampleFile, humanize.IBytes(uint64(view.SampleBytes)))
			fmt.Fprintf(out, "Points:       %s\n", humanize.Comma(int64(view.Points)))
			fmt.Fprintf(out, "Q range:      %.4f to %.4f\n", view.QMin, view.QMax)
			return nil
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var rename, displayName, description string
	var elementList, tags []string
	var clearDisplayName bool

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change a spectrum's metadata or rename it",
		Long:  "Only the flags that are given change the record; everything else is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var update catalog.Update
			if flags.Changed("rename") {
				update.Name = &rename
			}
			if flags.Changed("display-name") && flags.Changed("clear-display-name") {
				return errors.New("--display-name and --clear-display-name are mutually exclusive")
			}
			if flags.Changed("display-name") {
				update.DisplayName = &displayName
			}
			if clearDisplayName {
				empty := ""
				update.DisplayName = &empty
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("element") {
				symbols, err := elements.NormalizeSet(elementList)
				if err != nil {
					return err
				}
				if len(symbols) == 0 {
					return errors.New("at least one contained element is required")
				}
				update.Elements = &symbols
			}
			if flags.Changed("tag") {
				update.Tags = &tags
			}

			var updated *catalog.Spectrum
			err := ctx.withWriteLock(func(store *catalog.Store) error {
				var err error
				updated, err = store.Edit(args[0], update)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, newSpectrumView(updated))
			}
			if updated.Name != args[0] {
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], updated.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", updated.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&rename, "rename", "", "New catalog name")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Human-readable label")
	cmd.Flags().BoolVar(&clearDisplayName, "clear-display-name", false, "Remove the display name")
	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	cmd.Flags().StringSliceVarP(&elementList, "element", "e", nil, "Replace the contained elements")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace the tags (pass --tag= to clear)")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a spectrum and its sample file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.withWriteLock(func(store *catalog.Store) error {
				return store.Delete(args[0])
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			tags, err := store.UsedTags()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, tags)
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func newElementsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "elements",
		Short:       "List the element symbols accepted by --element",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := elements.All()
			if ctx.jsonOutput() {
				return writeJSON(cmd, all)
			}
			rows := make([][]string, 0, len(all))
			for i, symbol := range all {
				rows = append(rows, []string{strconv.Itoa(i + 1), symbol})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Z", "Symbol"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report orphaned and unreadable catalog files",
		Long:  "Scan the catalog directory for descriptors without sample files, sample files\nwithout descriptors, and unreadable descriptors. Nothing is modified.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			report, err := store.Check()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d healthy records\n", report.Records)
				if len(report.Problems) > 0 {
					rows := make([][]string, 0, len(report.Problems))
					for _, p := range report.Problems {
						rows = append(rows, []string{p.File, p.Kind, p.Detail})
					}
					fmt.Fprintln(out, renderTable(out, []string{"File", "Problem", "Detail"}, rows, nil))
				}
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d problems found in %s", catalog.ErrOrphanRecord, len(report.Problems), store.Dir())
			}
			return nil
		},
	}
}
