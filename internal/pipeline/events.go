package pipeline

import (
	"fmt"

	"github.com/joseph-ayodele/smart-rename/internal/entity"
)

// State is where a Processor is in its run.
type State string

const (
	StateIdle         State = "idle"
	StateCollecting   State = "collecting"
	StateExtracting   State = "extracting"
	StateSynthesizing State = "synthesizing"
	StatePresenting   State = "presenting"
	StateApplying     State = "applying"
	StateDone         State = "done"
)

// EventKind names a notification.
type EventKind string

const (
	EventState                EventKind = "state"
	EventNoFilesSelected      EventKind = "no_files_selected"
	EventNoPDFFiles           EventKind = "no_pdf_files"
	EventAnalyzing            EventKind = "analyzing"
	EventFileAnalyzed         EventKind = "file_analyzed"
	EventSuggestionsGenerated EventKind = "suggestions_generated"
	EventNoRenamesNeeded      EventKind = "no_renames_needed"
	EventRenamed              EventKind = "renamed"
	EventRenameFailed         EventKind = "rename_failed"
	EventCannotRename         EventKind = "cannot_rename"
	EventFailure              EventKind = "failure"
)

// Event is one user-facing notification.
type Event struct {
	Kind     EventKind
	From, To State // EventState only
	Count    int
	Total    int
	Index    int
	Path     string
	Reason   string
	Message  string
	Outcomes []entity.RenameOutcome // EventRenameFailed only
}

// Notifier receives events in the order they happen.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type discard struct{}

func (discard) Notify(Event) {}

func stateEvent(from, to State) Event {
	return Event{Kind: EventState, From: from, To: to, Message: fmt.Sprintf("%s -> %s", from, to)}
}

func noFilesSelected() Event {
	return Event{Kind: EventNoFilesSelected, Message: "No files selected."}
}

func noPDFFiles(total int) Event {
	return Event{Kind: EventNoPDFFiles, Total: total, Message: "No PDF files among the selected files."}
}

func analyzing(n int) Event {
	return Event{Kind: EventAnalyzing, Count: n, Message: fmt.Sprintf("Analyzing %d PDF file(s)...", n)}
}

func fileAnalyzed(i, total int, s entity.Suggestion) Event {
	e := Event{Kind: EventFileAnalyzed, Index: i, Total: total, Path: s.SourcePath, Message: s.OriginalName}
	if s.Failure != nil {
		e.Reason = s.Failure.Message
	}
	return e
}

func suggestionsGenerated(n int) Event {
	return Event{Kind: EventSuggestionsGenerated, Count: n, Message: fmt.Sprintf("Generated %d suggestion(s).", n)}
}

func noRenamesNeeded() Event {
	return Event{Kind: EventNoRenamesNeeded, Message: "No renames needed."}
}

func renamed(n int) Event {
	return Event{Kind: EventRenamed, Count: n, Message: fmt.Sprintf("Renamed %d file(s).", n)}
}

func renameFailed(succeeded, total int, reason string, outcomes []entity.RenameOutcome) Event {
	return Event{
		Kind:     EventRenameFailed,
		Count:    succeeded,
		Total:    total,
		Reason:   reason,
		Outcomes: outcomes,
		Message:  fmt.Sprintf("Rename failed: %s", reason),
	}
}

func cannotRename(reason string) Event {
	return Event{Kind: EventCannotRename, Reason: reason, Message: fmt.Sprintf("Cannot rename: %s", reason)}
}

func failure(reason string) Event {
	return Event{Kind: EventFailure, Reason: reason, Message: "Something went wrong: " + reason}
}
