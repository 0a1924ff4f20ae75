// Package analysis sequences the co-change mining pipeline: mine grouped
// commit diffs from a provider, build the changes matrix, compute
// co-change frequency/probability, and predict the ripple. The
// repository is opened by the caller before Run; a failure to open it
// never reaches an Analysis's status.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ripplemine/ripplemine/pkg/cochange"
)

// Status is the orchestrator's lifecycle state.
type Status int

const (
	Initialized Status = iota
	Running
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommitDiffProvider is the input port: it mines a repository and
// returns the bin→diff mapping the co-change engine consumes.
type CommitDiffProvider interface {
	MineDiffs(ctx context.Context) (map[cochange.Bin]cochange.DiffRecord, error)
}

// Artifacts bundles everything the sink needs: the changes matrix, the
// co-change bundle, and the ripple prediction.
type Artifacts struct {
	Changes  *cochange.Changes
	CoChange *cochange.CoChanges
	Ripple   cochange.Ripple
}

// ArtifactSink is the output port: it persists or renders the finished
// artifacts. The core never constructs one; callers provide it.
type ArtifactSink interface {
	Emit(ctx context.Context, artifacts Artifacts) error
}

// Options configures one Analysis run.
type Options struct {
	ChangesMin float64
	FreqMin    float64
	Algorithm  cochange.Algorithm
	Window     cochange.PredictionWindow
}

// Analysis owns one run of the pipeline: its options, status, and, once
// Completed, its artifacts. Failed runs preserve the triggering cause.
type Analysis struct {
	Options Options

	status     Status
	startedAt  time.Time
	finishedAt time.Time
	err        error

	artifacts Artifacts
}

// New constructs an Analysis in the Initialized state.
func New(opts Options) *Analysis {
	return &Analysis{Options: opts, status: Initialized}
}

// Status returns the current lifecycle state.
func (a *Analysis) Status() Status { return a.status }

// Err returns the cause of a Failed run, or nil.
func (a *Analysis) Err() error { return a.err }

// Elapsed returns the wall-clock duration of the run: zero before Run is
// called, the time elapsed so far while Running, and the final duration
// once the run has reached Completed or Failed.
func (a *Analysis) Elapsed() time.Duration {
	if a.startedAt.IsZero() {
		return 0
	}

	end := a.finishedAt
	if end.IsZero() {
		end = time.Now()
	}

	return end.Sub(a.startedAt)
}

// StartedAt returns when Run began, or the zero time before Run is called.
func (a *Analysis) StartedAt() time.Time { return a.startedAt }

// FinishedAt returns when the run reached Completed or Failed, or the
// zero time until then.
func (a *Analysis) FinishedAt() time.Time { return a.finishedAt }

// Artifacts returns the bundle produced by a Completed run.
func (a *Analysis) Artifacts() Artifacts { return a.artifacts }

// Run executes the pipeline: mine diffs, build changes, compute
// co-changes, predict the ripple, and (if sink is non-nil) emit the
// result. Any failure short-circuits, transitions to Failed, and is
// returned to the caller wrapped with the failing stage; errors.Is
// still matches the original cause.
func (a *Analysis) Run(ctx context.Context, provider CommitDiffProvider, sink ArtifactSink) error {
	a.status = Running
	a.startedAt = time.Now()

	if err := a.run(ctx, provider, sink); err != nil {
		a.err = err
		a.status = Failed
		a.finishedAt = time.Now()

		return err
	}

	a.status = Completed
	a.finishedAt = time.Now()

	return nil
}

func (a *Analysis) run(ctx context.Context, provider CommitDiffProvider, sink ArtifactSink) error {
	diffs, err := provider.MineDiffs(ctx)
	if err != nil {
		return fmt.Errorf("mine diffs: %w", err)
	}

	changes := cochange.BuildChanges(diffs)

	cc := cochange.Calculate(changes, cochange.Options{
		Algorithm:  a.Options.Algorithm,
		ChangesMin: a.Options.ChangesMin,
		FreqMin:    a.Options.FreqMin,
	})

	ripple := cochange.Predict(changes, cc, a.Options.Window)

	a.artifacts = Artifacts{Changes: changes, CoChange: cc, Ripple: ripple}

	if sink == nil {
		return nil
	}

	if err := sink.Emit(ctx, a.artifacts); err != nil {
		return fmt.Errorf("emit artifacts: %w", err)
	}

	return nil
}
