package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/joseph-ayodele/smart-rename/internal/pipeline"
)

// newNotifier prints user-facing pipeline events on w. State changes stay
// in the debug log.
func newNotifier(w io.Writer) pipeline.Notifier {
	return pipeline.NotifierFunc(func(e pipeline.Event) {
		if msg := eventMessage(e); msg != "" {
			fmt.Fprintln(w, msg)
		}
	})
}

func eventMessage(e pipeline.Event) string {
	switch e.Kind {
	case pipeline.EventState:
		return ""
	case pipeline.EventFileAnalyzed:
		line := fmt.Sprintf("[%d/%d] %s", e.Index+1, e.Total, filepath.Base(e.Path))
		if e.Reason != "" {
			line += ": " + e.Reason
		}
		return line
	case pipeline.EventRenameFailed:
		msg := e.Message
		if len(e.Outcomes) < 2 {
			return msg
		}
		for _, o := range e.Outcomes {
			msg += fmt.Sprintf("\n  %s -> %s: %v", o.Operation.OriginalName, o.Operation.NewName, o.Err)
		}
		return msg
	default:
		return e.Message
	}
}
