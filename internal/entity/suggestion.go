package entity

import (
	"github.com/joseph-ayodele/smart-rename/constants"
	"github.com/joseph-ayodele/smart-rename/internal/extract"
	"github.com/joseph-ayodele/smart-rename/internal/naming"
)

// Suggestion is the proposed name for one input file. It is built once per
// file and not changed afterwards.
type Suggestion struct {
	Index         int              `json:"index"` // position in the input list
	SourcePath    string           `json:"source_path"`
	OriginalName  string           `json:"original_name"`
	SuggestedName string           `json:"suggested_name"`
	Text          string           `json:"text,omitempty"`
	Fields        naming.Fields    `json:"fields"`
	Method        string           `json:"method,omitempty"`
	Cached        bool             `json:"cached"`
	Failure       *extract.Failure `json:"failure,omitempty"`
}

// Status derives the display status.
func (s Suggestion) Status() constants.SuggestionStatus {
	switch {
	case s.Failure != nil:
		return constants.StatusError
	case s.SuggestedName == s.OriginalName:
		return constants.StatusNoChange
	default:
		return constants.StatusRenameSuggested
	}
}

// Renamable reports whether applying the suggestion would change anything.
func (s Suggestion) Renamable() bool {
	return s.Status() == constants.StatusRenameSuggested
}
