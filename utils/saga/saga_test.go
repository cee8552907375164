package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) step(name string, failAction, failCompensate bool) Step {
	return Step{
		Name: name,
		Action: func(ctx context.Context) error {
			r.calls = append(r.calls, "do:"+name)
			if failAction {
				return errors.New(name + " failed")
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			r.calls = append(r.calls, "undo:"+name)
			if failCompensate {
				return errors.New("undo " + name + " failed")
			}
			return nil
		},
	}
}

func TestSaga_Run(t *testing.T) {
	tests := []struct {
		name             string
		build            func(r *recorder) *Saga
		wantCalls        []string
		wantErr          bool
		wantStep         string
		wantInconsistent []string
	}{
		{
			name: "all steps succeed",
			build: func(r *recorder) *Saga {
				return New("t").Add(r.step("a", false, false)).Add(r.step("b", false, false))
			},
			wantCalls: []string{"do:a", "do:b"},
		},
		{
			name: "failure unwinds completed steps newest first",
			build: func(r *recorder) *Saga {
				return New("t").
					Add(r.step("a", false, false)).
					Add(r.step("b", false, false)).
					Add(r.step("c", true, false))
			},
			wantCalls: []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"},
			wantErr:   true,
			wantStep:  "c",
		},
		{
			name: "first step failing compensates nothing",
			build: func(r *recorder) *Saga {
				return New("t").Add(r.step("a", true, false)).Add(r.step("b", false, false))
			},
			wantCalls: []string{"do:a"},
			wantErr:   true,
			wantStep:  "a",
		},
		{
			name: "failed compensation is reported and the rest still run",
			build: func(r *recorder) *Saga {
				return New("t").
					Add(r.step("a", false, false)).
					Add(r.step("b", false, true)).
					Add(r.step("c", true, false))
			},
			wantCalls:        []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"},
			wantErr:          true,
			wantStep:         "c",
			wantInconsistent: []string{"b"},
		},
		{
			name: "steps without compensation are skipped",
			build: func(r *recorder) *Saga {
				s := r.step("b", false, false)
				s.Compensate = nil
				return New("t").Add(r.step("a", false, false)).Add(s).Add(r.step("c", true, false))
			},
			wantCalls: []string{"do:a", "do:b", "do:c", "undo:a"},
			wantErr:   true,
			wantStep:  "c",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			err := tt.build(r).Run(context.Background())
			assert.Equal(t, tt.wantCalls, r.calls)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.Equal(t, tt.wantInconsistent, stepErr.Inconsistent)
		})
	}
}

func TestSaga_CompensatesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undoErr error
	err := New("t").
		Add(Step{
			Name:       "a",
			Action:     func(context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { undoErr = ctx.Err(); return nil },
		}).
		Add(Step{
			Name:   "b",
			Action: func(context.Context) error { cancel(); return context.Canceled },
		}).
		Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoErr)
}
