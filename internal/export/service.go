package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/smart-rename/internal/entity"
)

// Service produces reports of a batch of suggestions.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SuggestionsXLSX returns an XLSX workbook (as bytes) listing every
// suggestion of the batch in input order.
func (s *Service) SuggestionsXLSX(batch *entity.Batch) ([]byte, error) {
	if batch == nil {
		return nil, fmt.Errorf("nil batch")
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Suggestions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	// the default sheet stays empty otherwise
	_ = f.DeleteSheet("Sheet1")
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"#",
		"Original Name",
		"Suggested Name",
		"Status",
		"Date",
		"Sender",
		"Subject",
		"Method",
		"Error",
		"Source Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sg := range batch.Suggestions {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		errMsg := ""
		if sg.Failure != nil {
			errMsg = truncate(sg.Failure.Message, 200)
		}

		write(1, sg.Index+1)
		write(2, sg.OriginalName)
		write(3, sg.SuggestedName)
		write(4, sg.Status().Label())
		write(5, sg.Fields.Date)
		write(6, sg.Fields.Sender)
		write(7, sg.Fields.Subject)
		write(8, sg.Method)
		write(9, errMsg)
		write(10, sg.SourcePath)
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 5)  // index
	_ = f.SetColWidth(sheet, "B", "C", 48) // names
	_ = f.SetColWidth(sheet, "D", "D", 18) // status
	_ = f.SetColWidth(sheet, "E", "E", 12) // date
	_ = f.SetColWidth(sheet, "F", "G", 32) // sender, subject
	_ = f.SetColWidth(sheet, "H", "H", 10) // method
	_ = f.SetColWidth(sheet, "I", "I", 40) // error
	_ = f.SetColWidth(sheet, "J", "J", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("suggestions exported",
		"batch_id", batch.ID,
		"rows", len(batch.Suggestions),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
