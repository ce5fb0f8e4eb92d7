package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/insightsheet-cli/internal/cleaning"
	"github.com/KaramelBytes/insightsheet-cli/internal/history"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/transform"
)

// StepError reports the recipe step that failed.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepResult summarises one applied step.
type StepResult struct {
	Op         string
	Removed    int
	Rows       int
	Columns    int
	SnapshotID string
}

// Report describes a recipe run.
type Report struct {
	RunID  string
	Recipe string
	Steps  []StepResult
}

// Run applies the recipe to t in order. When h is non-nil the input and the
// result of every step are pushed onto it. On failure the table as of the
// last successful step is returned together with a *StepError.
func Run(t table.Table, r Recipe, h *history.Stack) (table.Table, *Report, error) {
	rep := &Report{RunID: uuid.NewString(), Recipe: r.Name}
	log := slog.With("run_id", rep.RunID, "recipe", r.Name)
	if err := r.Validate(); err != nil {
		return t, rep, err
	}
	if h != nil {
		if _, ok := h.Current(); !ok {
			h.Push("input", t)
		}
	}
	cur := t
	for i, s := range r.Steps {
		next, removed, err := apply(cur, s)
		if err != nil {
			log.Debug("recipe step failed", "step", i+1, "op", s.Op, "err", err)
			return cur, rep, &StepError{Index: i, Op: s.Op, Err: err}
		}
		res := StepResult{Op: strings.ToLower(s.Op), Removed: removed, Rows: next.Len(), Columns: len(next.Headers)}
		if h != nil {
			res.SnapshotID = h.Push(res.Op, next).ID
		}
		log.Debug("recipe step applied", "step", i+1, "op", res.Op, "rows", res.Rows, "removed", removed)
		rep.Steps = append(rep.Steps, res)
		cur = next
	}
	return cur, rep, nil
}

func apply(t table.Table, s Step) (table.Table, int, error) {
	switch strings.ToLower(s.Op) {
	case OpDedupe:
		res := cleaning.Dedupe(t)
		return res.Table, res.Removed, nil
	case OpTrim:
		return cleaning.Trim(t), 0, nil
	case OpInferTypes:
		return cleaning.InferTypes(t), 0, nil
	case OpCleanAll:
		res := cleaning.CleanAll(t)
		return res.Table, res.Removed, nil
	case OpRemoveOutliers:
		res, err := cleaning.RemoveOutliers(t, s.Column, s.Threshold)
		return res.Table, res.Removed, err
	case OpFillMissing:
		strategy, err := cleaning.ParseStrategy(s.Strategy)
		if err != nil {
			return t, 0, err
		}
		out, err := cleaning.FillMissing(t, s.Column, strategy)
		return out, 0, err
	case OpTransform:
		op, err := transform.ParseOp(s.Operation)
		if err != nil {
			return t, 0, err
		}
		out, err := transform.ApplyTransform(t, s.ColumnA, s.ColumnB, op, s.NewColumn, s.Separator)
		return out, 0, err
	}
	return t, 0, fmt.Errorf("unknown op %q", s.Op)
}
