package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/export"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var in inputOptions
	var jsonOut bool
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "suggest PATH...",
		Short: "Show suggested names for PDF files without renaming anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			batch, err := s.analyze(cmd.Context(), args, in)
			if err != nil {
				return err
			}

			svc := export.NewService(s.logger)
			if xlsxPath != "" {
				if err := writeXLSX(svc, batch, xlsxPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", xlsxPath)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeReport(svc, batch, nil, out)
			}
			fmt.Fprintln(out, renderSuggestions(batch, shouldColorize(out)))
			printCounts(out, batch.Counts())
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the suggestions as a JSON report")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the suggestions to an XLSX workbook")
	return cmd
}

func writeXLSX(svc *export.Service, batch *entity.Batch, path string) error {
	data, err := svc.SuggestionsXLSX(batch)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeReport(svc *export.Service, batch *entity.Batch, res *rename.Result, out io.Writer) error {
	data, err := svc.ReportJSON(batch, res)
	if err != nil {
		return err
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
