package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/ingest"
)

// inputOptions are the flags shared by commands that take PATH arguments.
type inputOptions struct {
	recursive     bool
	includeHidden bool
}

func (o *inputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.recursive, "recursive", "r", false, "Descend into sub-directories of directory arguments")
	cmd.Flags().BoolVar(&o.includeHidden, "include-hidden", false, "Include dot-files found in directory arguments")
}

func (o inputOptions) options() ingest.Options {
	return ingest.Options{Recursive: o.recursive, SkipHidden: !o.includeHidden}
}
