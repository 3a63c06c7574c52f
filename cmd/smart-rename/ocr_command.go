package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/naming"
)

func newOCRCommand(ctx *commandContext) *cobra.Command {
	var showFields bool

	cmd := &cobra.Command{
		Use:   "ocr FILE",
		Short: "Print the recognized text of one PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			res := s.source.GetText(cmd.Context(), path)
			if !res.OK() {
				return fmt.Errorf("%s: %w", res.SourceName, res.Failure)
			}
			s.logger.Debug("text extracted", "path", path, "method", res.Method, "cached", res.Cached, "duration_ms", res.Duration.Milliseconds())

			out := cmd.OutOrStdout()
			if showFields {
				f := naming.ExtractFields(res.Text)
				fmt.Fprintf(out, "Date:      %s\n", f.Date)
				fmt.Fprintf(out, "Sender:    %s\n", f.Sender)
				fmt.Fprintf(out, "Subject:   %s\n", f.Subject)
				fmt.Fprintf(out, "Suggested: %s\n\n", naming.SuggestName(res.Text, filepath.Base(path)))
			}
			fmt.Fprint(out, res.Text)
			if !strings.HasSuffix(res.Text, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFields, "fields", false, "Also print the extracted date, sender, subject and suggested name")
	return cmd
}
