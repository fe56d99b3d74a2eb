// Package saga sequences compensable tasks with rollback-on-failure
// semantics. A task pairs a forward action with a best-effort undo; when
// any forward action fails, the completed steps are reverted in strict
// reverse order and the original failure is returned.
package saga

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Outcome is the tagged result of a forward action, handed to Revert so
// it can tell "execute produced a usable result" apart from "execute
// itself failed" without inspecting the value.
type Outcome[R any] struct {
	value     R
	err       error
	completed bool
}

// Success tags a forward action that produced value.
func Success[R any](value R) Outcome[R] {
	return Outcome[R]{value: value, completed: true}
}

// Failure tags a forward action that failed with err.
func Failure[R any](err error) Outcome[R] {
	return Outcome[R]{err: err}
}

// Completed reports whether the forward action produced a usable result.
func (o Outcome[R]) Completed() bool { return o.completed }

// Value returns the forward result; only meaningful when Completed.
func (o Outcome[R]) Value() R { return o.value }

// Err returns the forward failure; nil when Completed.
func (o Outcome[R]) Err() error { return o.err }

// Task is one compensable step.
//
// Execute performs the forward action. Revert performs a best-effort
// undo: it receives the tagged outcome of this task's own Execute and
// must swallow (log) its own failures so that unwinding of other steps
// is never blocked.
type Task[R any] interface {
	Name() string
	Execute(ctx context.Context) (R, error)
	Revert(ctx context.Context, outcome Outcome[R])
}

// step is a type-erased task with its recorded outcome captured in the
// closures.
type step struct {
	name    string
	execute func(ctx context.Context) error
	revert  func(ctx context.Context)
}

// Saga is a sequence of compensable tasks for a single unit of work.
// A Saga instance is not safe for concurrent use; run one per amphora.
type Saga struct {
	log   logr.Logger
	steps []*step
}

// New creates an empty saga.
func New(log logr.Logger) *Saga {
	return &Saga{log: log.WithName("saga")}
}

// Add appends a task to the saga.
func Add[R any](s *Saga, t Task[R]) {
	st := &step{name: t.Name()}
	var outcome Outcome[R]
	st.execute = func(ctx context.Context) error {
		v, err := t.Execute(ctx)
		if err != nil {
			outcome = Failure[R](err)
			return err
		}
		outcome = Success(v)
		return nil
	}
	st.revert = func(ctx context.Context) {
		t.Revert(ctx, outcome)
	}
	s.steps = append(s.steps, st)
}

// Run executes the steps in order. On the first forward failure it
// reverts, in reverse order, the failed step and every step before it,
// then returns the forward failure. Revert failures never mask it.
func (s *Saga) Run(ctx context.Context) error {
	for i, st := range s.steps {
		err := st.execute(ctx)
		if err == nil {
			continue
		}
		s.log.Error(err, "task failed, unwinding", "task", st.name, "completedSteps", i)
		// The unwind is decoupled from ctx's cancellation: a forward
		// failure caused by the caller canceling must still compensate.
		revertCtx := context.WithoutCancel(ctx)
		for j := i; j >= 0; j-- {
			s.runRevert(revertCtx, s.steps[j])
		}
		return fmt.Errorf("%s failed: %w", st.name, err)
	}
	return nil
}

// runRevert shields the unwind from a panicking revert.
func (s *Saga) runRevert(ctx context.Context, st *step) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(fmt.Errorf("panic: %v", r), "revert panicked", "task", st.name)
		}
	}()
	st.revert(ctx)
}
