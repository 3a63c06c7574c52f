package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/export"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var in inputOptions
	var yes bool
	var only int
	var dryRun bool
	var reportPath string

	cmd := &cobra.Command{
		Use:   "apply PATH...",
		Short: "Rename PDF files to their suggested names",
		Long: "Analyze the given files, show the suggested names and rename them after confirmation.\n" +
			"Files whose text could not be read keep their name. Renames that succeed stay applied\n" +
			"when others fail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if only < 0 {
				return fmt.Errorf("%w: --only must be a positive item number", common.ErrInvalidInput)
			}
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			batch, err := s.analyze(cmd.Context(), args, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSuggestions(batch, shouldColorize(out)))

			var selected *entity.Suggestion
			if only > 0 {
				if only > len(batch.Suggestions) {
					return fmt.Errorf("%w: --only %d, batch has %d item(s)", common.ErrInvalidInput, only, len(batch.Suggestions))
				}
				selected = &batch.Suggestions[only-1]
			}

			planned := s.processor.Plan(batch)
			if selected != nil {
				planned = nil
				if selected.Renamable() {
					planned = []entity.RenameOperation{entity.NewRenameOperation(*selected)}
				}
			}

			if dryRun {
				if len(planned) == 0 {
					fmt.Fprintln(out, "No renames needed.")
					return nil
				}
				for _, op := range planned {
					fmt.Fprintf(out, "would rename %s -> %s\n", op.OriginalName, op.NewName)
				}
				return nil
			}

			if len(planned) > 0 && !yes {
				ok, err := ctx.confirm(cmd, fmt.Sprintf("Rename %d file(s)?", len(planned)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted; no files were renamed.")
					return nil
				}
			}

			var res rename.Result
			if selected != nil {
				res, err = s.processor.RenameOne(cmd.Context(), *selected)
			} else {
				res, err = s.processor.RenameAll(cmd.Context(), batch)
			}
			printOutcomes(out, res)

			if reportPath != "" {
				if werr := writeReportFile(export.NewService(s.logger), batch, &res, reportPath); werr != nil {
					s.logger.Error("write rename report", "path", reportPath, "error", werr)
				}
			}
			return err
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Rename without asking for confirmation")
	cmd.Flags().IntVar(&only, "only", 0, "Rename only item N of the table (1-based)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be renamed and stop")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON report of suggestions and rename outcomes to this file")
	return cmd
}

// confirm asks a yes/no question on the command's streams. Without a
// terminal on stdin it refuses, so scripts must pass --yes.
func (c *commandContext) confirm(cmd *cobra.Command, question string) (bool, error) {
	in := cmd.InOrStdin()
	if !c.interactive(in) {
		return false, fmt.Errorf("%w: stdin is not a terminal; pass --yes to rename without confirmation", common.ErrInvalidInput)
	}
	return promptYesNo(in, cmd.OutOrStdout(), question)
}

func promptYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func writeReportFile(svc *export.Service, batch *entity.Batch, res *rename.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeReport(svc, batch, res, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
