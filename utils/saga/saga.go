// Package saga runs an ordered list of steps and unwinds the completed ones, newest first,
// when a later step fails.
package saga

import (
	"context"
	"fmt"

	"github.com/threeofkind/storefront/utils/logger"
	"go.uber.org/zap"
)

type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Saga struct {
	name  string
	steps []Step
}

// StepError wraps the error of the step that stopped the saga.
type StepError struct {
	Step string
	Err  error
	// Inconsistent lists compensations that failed and need manual reconciliation.
	Inconsistent []string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("saga step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func New(name string) *Saga {
	return &Saga{name: name}
}

func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the steps in order. Compensations run on a context detached from ctx
// cancellation so a timed out request still unwinds what it already did.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			stepErr := &StepError{Step: step.Name, Err: err}
			stepErr.Inconsistent = s.compensate(context.WithoutCancel(ctx), i-1)
			return stepErr
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, last int) []string {
	var failed []string
	for i := last; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			logger.Error("[Saga] compensation failed, manual reconciliation required",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.String("error", err.Error()))
			failed = append(failed, step.Name)
		}
	}
	return failed
}
