package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/extract"
	"github.com/joseph-ayodele/smart-rename/internal/ingest"
	"github.com/joseph-ayodele/smart-rename/internal/naming"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
)

// Executor applies rename operations.
type Executor interface {
	Apply(ctx context.Context, ops []entity.RenameOperation) (rename.Result, error)
}

// Processor coordinates text extraction, name synthesis and renaming for one
// batch of files. Files are handled one at a time in input order; a failure
// on one file only marks that file.
type Processor struct {
	source   extract.TextSource
	executor Executor
	notifier Notifier
	logger   *slog.Logger
	state    State
}

func NewProcessor(src extract.TextSource, exec Executor, notifier Notifier, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = discard{}
	}
	return &Processor{source: src, executor: exec, notifier: notifier, logger: logger, state: StateIdle}
}

// State returns the current state.
func (p *Processor) State() State { return p.state }

func (p *Processor) setState(to State) {
	if p.state == to {
		return
	}
	from := p.state
	p.state = to
	p.logger.Debug("processor state", "from", from, "to", to)
	p.notifier.Notify(stateEvent(from, to))
}

// Analyze extracts text from every PDF in paths and builds one suggestion per
// file, in input order. Non-PDF paths are ignored. An empty selection and a
// selection without PDFs end the run with ErrNoFilesSelected / ErrNoPDFFiles.
func (p *Processor) Analyze(ctx context.Context, paths []string) (batch *entity.Batch, err error) {
	defer p.recoverPanic("analyze", &err)

	p.setState(StateCollecting)
	if len(paths) == 0 {
		p.notifier.Notify(noFilesSelected())
		p.setState(StateDone)
		return nil, common.ErrNoFilesSelected
	}
	pdfs, stats := ingest.FilterPDFs(paths)
	if len(pdfs) == 0 {
		p.notifier.Notify(noPDFFiles(len(paths)))
		p.setState(StateDone)
		return nil, common.ErrNoPDFFiles
	}

	batch = entity.NewBatch()
	ctx = common.WithBatchID(ctx, batch.ID.String())
	logger := common.LoggerFromContext(ctx, p.logger).With("batch_id", batch.ID.String())
	logger.Info("analyzing files", "pdfs", stats.Matched, "ignored", stats.Rejected)
	p.notifier.Notify(analyzing(len(pdfs)))

	p.setState(StateExtracting)
	results := make([]extract.TextResult, 0, len(pdfs))
	for i, path := range pdfs {
		if err := ctx.Err(); err != nil {
			p.notifier.Notify(failure("cancelled"))
			p.setState(StateDone)
			return nil, err
		}
		res := p.source.GetText(ctx, path)
		if res.SourcePath == "" {
			res.SourcePath = path
		}
		results = append(results, res)
		if !res.OK() {
			logger.Warn("file failed", "index", i, "path", path, "kind", res.Failure.Kind, "error", res.Failure.Message)
		}
	}

	p.setState(StateSynthesizing)
	batch.Suggestions = make([]entity.Suggestion, 0, len(results))
	for i, res := range results {
		s := suggest(i, res)
		batch.Suggestions = append(batch.Suggestions, s)
		p.notifier.Notify(fileAnalyzed(i, len(results), s))
		logger.Debug("suggestion", "index", i, "original", s.OriginalName, "suggested", s.SuggestedName, "status", s.Status())
	}

	p.notifier.Notify(suggestionsGenerated(len(batch.Suggestions)))
	p.setState(StatePresenting)
	return batch, nil
}

// suggest builds the suggestion for one extraction result. A failed result
// keeps its original name.
func suggest(i int, res extract.TextResult) entity.Suggestion {
	s := entity.Suggestion{
		Index:         i,
		SourcePath:    res.SourcePath,
		OriginalName:  filepath.Base(res.SourcePath),
		SuggestedName: filepath.Base(res.SourcePath),
		Method:        res.Method,
		Cached:        res.Cached,
		Failure:       res.Failure,
	}
	if !res.OK() {
		return s
	}
	s.Text = res.Text
	s.Fields = naming.ExtractFields(res.Text)
	s.SuggestedName = naming.SynthesizeName(s.Fields, naming.FallbackBaseName(s.OriginalName))
	return s
}

// Plan lists the operations RenameAll would run: every suggestion without a
// failure whose name changes.
func (p *Processor) Plan(batch *entity.Batch) []entity.RenameOperation {
	if batch == nil {
		return nil
	}
	var ops []entity.RenameOperation
	for _, s := range batch.Suggestions {
		if s.Renamable() {
			ops = append(ops, entity.NewRenameOperation(s))
		}
	}
	return ops
}

// RenameOne applies a single suggestion.
func (p *Processor) RenameOne(ctx context.Context, s entity.Suggestion) (res rename.Result, err error) {
	defer p.recoverPanic("rename one", &err)

	if s.Failure != nil {
		p.notifier.Notify(cannotRename(s.Failure.Message))
		return rename.Result{}, fmt.Errorf("%w: %s: %s", common.ErrCannotRename, s.OriginalName, s.Failure.Message)
	}
	if s.SuggestedName == s.OriginalName {
		p.notifier.Notify(noRenamesNeeded())
		p.setState(StateDone)
		return rename.Result{}, common.ErrNothingToRename
	}
	return p.apply(ctx, []entity.RenameOperation{entity.NewRenameOperation(s)})
}

// RenameAll applies every renamable suggestion of the batch. Renames that
// succeeded stay applied when others fail.
func (p *Processor) RenameAll(ctx context.Context, batch *entity.Batch) (res rename.Result, err error) {
	defer p.recoverPanic("rename all", &err)

	ops := p.Plan(batch)
	if len(ops) == 0 {
		p.notifier.Notify(noRenamesNeeded())
		p.setState(StateDone)
		return rename.Result{}, common.ErrNothingToRename
	}
	if batch != nil {
		ctx = common.WithBatchID(ctx, batch.ID.String())
	}
	return p.apply(ctx, ops)
}

func (p *Processor) apply(ctx context.Context, ops []entity.RenameOperation) (rename.Result, error) {
	p.setState(StateApplying)
	res, err := p.executor.Apply(ctx, ops)
	if err != nil {
		p.setState(StateDone)
		if errors.Is(err, common.ErrBatchInProgress) {
			p.notifier.Notify(renameFailed(0, len(ops), "another rename batch is running", nil))
			return res, err
		}
		p.logger.Error("rename executor failed", "error", err)
		p.notifier.Notify(failure(err.Error()))
		return res, fmt.Errorf("%w: %v", common.ErrUnexpected, err)
	}

	p.setState(StateDone)
	if res.OK() {
		p.notifier.Notify(renamed(res.Succeeded))
		return res, nil
	}

	failed := res.Failed()
	p.notifier.Notify(renameFailed(res.Succeeded, len(ops), failureSummary(failed), failed))
	return res, fmt.Errorf("%w: %d of %d failed", common.ErrRenameFailed, len(failed), len(ops))
}

func failureSummary(failed []entity.RenameOutcome) string {
	if len(failed) == 1 {
		return failed[0].Err.Error()
	}
	reasons := make([]string, 0, len(failed))
	for _, o := range failed {
		reasons = append(reasons, fmt.Sprintf("%s (%s)", o.Operation.OriginalName, o.Reason))
	}
	return fmt.Sprintf("%d renames failed: %s", len(failed), strings.Join(reasons, ", "))
}

// recoverPanic turns a panic into a failure notice and ErrUnexpected.
func (p *Processor) recoverPanic(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	p.logger.Error("recovered panic", "op", op, "panic", r, "stack", string(debug.Stack()))
	p.notifier.Notify(failure(fmt.Sprint(r)))
	p.state = StateDone
	*err = fmt.Errorf("%w: %s: %v", common.ErrUnexpected, op, r)
}
