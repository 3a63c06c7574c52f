package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/joseph-ayodele/smart-rename/constants"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderSuggestions(batch *entity.Batch, colorize bool) string {
	rows := make([][]string, 0, len(batch.Suggestions))
	for _, s := range batch.Suggestions {
		note := s.Method
		if s.Cached {
			note += " (cached)"
		}
		if s.Failure != nil {
			note = s.Failure.Message
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index + 1),
			s.OriginalName,
			s.SuggestedName,
			statusLabel(s.Status(), colorize),
			note,
		})
	}
	return renderTable(
		[]string{"#", "Original", "Suggested", "Status", "Note"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func statusLabel(status constants.SuggestionStatus, colorize bool) string {
	label := status.Label()
	if !colorize {
		return label
	}
	switch status {
	case constants.StatusError:
		return text.Colors{text.FgRed}.Sprint(label)
	case constants.StatusRenameSuggested:
		return text.Colors{text.FgGreen}.Sprint(label)
	default:
		return text.Colors{text.FgHiBlack}.Sprint(label)
	}
}

func printCounts(out io.Writer, c entity.Counts) {
	fmt.Fprintf(out, "%d file(s): %d to rename, %d unchanged, %d failed\n", c.Total, c.Renamable, c.NoChange, c.Errors)
}

func printOutcomes(out io.Writer, res rename.Result) {
	if len(res.Outcomes) == 0 {
		return
	}
	rows := make([][]string, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		result := "renamed"
		if !o.Succeeded() {
			result = fmt.Sprintf("%s: %v", o.Reason, o.Err)
		}
		rows = append(rows, []string{o.Operation.OriginalName, o.Operation.NewName, result})
	}
	fmt.Fprintln(out, renderTable([]string{"Original", "New", "Result"}, rows, nil))
}
