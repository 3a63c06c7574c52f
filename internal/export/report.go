package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
)

// Report is the machine-readable form of a batch and, when renames ran,
// their outcomes.
type Report struct {
	BatchID     string       `json:"batch_id"`
	CreatedAt   string       `json:"created_at"`
	Total       int          `json:"total"`
	Errors      int          `json:"errors"`
	NoChange    int          `json:"no_change"`
	Renamable   int          `json:"renamable"`
	Suggestions []ReportItem `json:"suggestions"`
	Renames     []RenameItem `json:"renames,omitempty"`
}

type ReportItem struct {
	Index         int    `json:"index"`
	SourcePath    string `json:"source_path"`
	OriginalName  string `json:"original_name"`
	SuggestedName string `json:"suggested_name"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	Sender        string `json:"sender"`
	Subject       string `json:"subject"`
	Method        string `json:"method,omitempty"`
	Cached        bool   `json:"cached"`
	FailureKind   string `json:"failure_kind,omitempty"`
	Error         string `json:"error,omitempty"`
}

type RenameItem struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	OK              bool   `json:"ok"`
	Reason          string `json:"reason,omitempty"`
	Error           string `json:"error,omitempty"`
}

// BuildReport assembles a Report. res may be nil when nothing was renamed.
func BuildReport(batch *entity.Batch, res *rename.Result) Report {
	c := batch.Counts()
	r := Report{
		BatchID:     batch.ID.String(),
		CreatedAt:   batch.CreatedAt.Format(time.RFC3339),
		Total:       c.Total,
		Errors:      c.Errors,
		NoChange:    c.NoChange,
		Renamable:   c.Renamable,
		Suggestions: make([]ReportItem, 0, len(batch.Suggestions)),
	}
	for _, s := range batch.Suggestions {
		item := ReportItem{
			Index:         s.Index,
			SourcePath:    s.SourcePath,
			OriginalName:  s.OriginalName,
			SuggestedName: s.SuggestedName,
			Status:        string(s.Status()),
			Date:          s.Fields.Date,
			Sender:        s.Fields.Sender,
			Subject:       s.Fields.Subject,
			Method:        s.Method,
			Cached:        s.Cached,
		}
		if s.Failure != nil {
			item.FailureKind = string(s.Failure.Kind)
			item.Error = s.Failure.Message
		}
		r.Suggestions = append(r.Suggestions, item)
	}
	if res != nil {
		for _, o := range res.Outcomes {
			item := RenameItem{
				SourcePath:      o.Operation.SourcePath,
				DestinationPath: o.Operation.DestinationPath,
				OK:              o.Succeeded(),
			}
			if o.Err != nil {
				item.Reason = string(o.Reason)
				item.Error = o.Err.Error()
			}
			r.Renames = append(r.Renames, item)
		}
	}
	return r
}

// ReportJSON renders the report and checks it against ReportJSONSchema.
func (s *Service) ReportJSON(batch *entity.Batch, res *rename.Result) ([]byte, error) {
	if batch == nil {
		return nil, fmt.Errorf("nil batch")
	}
	data, err := json.MarshalIndent(BuildReport(batch, res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := ValidateJSONAgainstSchema(ReportJSONSchema(), data); err != nil {
		s.logger.Error("report failed schema validation", "batch_id", batch.ID, "error", err)
		return nil, err
	}
	return data, nil
}
