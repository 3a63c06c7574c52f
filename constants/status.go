package constants

// SuggestionStatus is how a suggestion is presented to the user.
type SuggestionStatus string

// Stable values (rendered in tables and written to reports).
const (
	StatusError           SuggestionStatus = "error"            // text extraction failed
	StatusNoChange        SuggestionStatus = "no_change"        // suggested name equals original
	StatusRenameSuggested SuggestionStatus = "rename_suggested" // a different name is proposed
)

// Label returns the human readable form used by the CLI.
func (s SuggestionStatus) Label() string {
	switch s {
	case StatusError:
		return "Error"
	case StatusNoChange:
		return "No change"
	case StatusRenameSuggested:
		return "Rename suggested"
	default:
		return string(s)
	}
}
