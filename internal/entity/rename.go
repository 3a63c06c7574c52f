package entity

import "path/filepath"

// RenameOperation moves one file to a new base name in the same directory.
type RenameOperation struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	OriginalName    string `json:"original_name"`
	NewName         string `json:"new_name"`
}

// NewRenameOperation builds the operation that applies a suggestion.
func NewRenameOperation(s Suggestion) RenameOperation {
	return RenameOperation{
		SourcePath:      s.SourcePath,
		DestinationPath: filepath.Join(filepath.Dir(s.SourcePath), s.SuggestedName),
		OriginalName:    s.OriginalName,
		NewName:         s.SuggestedName,
	}
}

// FailureReason classifies a failed rename.
type FailureReason string

const (
	ReasonInvalidTarget FailureReason = "invalid_target"
	ReasonCollision     FailureReason = "collision"
	ReasonPrimitive     FailureReason = "primitive"
	ReasonCancelled     FailureReason = "cancelled" // batch stopped before this operation
)

// RenameOutcome is the result of one operation. Err is nil on success.
type RenameOutcome struct {
	Operation RenameOperation
	Err       error
	Reason    FailureReason
}

// Succeeded reports whether the rename happened.
func (o RenameOutcome) Succeeded() bool { return o.Err == nil }
