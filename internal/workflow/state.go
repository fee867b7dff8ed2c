// Package workflow runs the fixed three-step decision pipeline:
// find options, analyze pros and cons, decide.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"verdict/internal/domain"
)

// Step names one stage of the pipeline.
type Step string

const (
	StepFindOptions Step = "find_options"
	StepProsCons    Step = "pros_cons"
	StepDecision    Step = "decision"
	StepComplete    Step = "complete"
	StepError       Step = "error"
)

// validTransitions is the allowed step graph. The pipeline is linear; the
// error step is reachable from every working step.
var validTransitions = map[Step][]Step{
	StepFindOptions: {StepProsCons, StepError},
	StepProsCons:    {StepDecision, StepError},
	StepDecision:    {StepComplete, StepError},
	StepError:       {},
	StepComplete:    {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Step) CanTransitionTo(next Step) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// State carries the inputs and accumulated outputs of one pipeline run.
type State struct {
	Query          string
	Options        []domain.Option
	Analyses       []domain.Analysis
	Recommendation domain.Recommendation
	Step           Step
	Err            error
	StartedAt      time.Time
	FinishedAt     time.Time
}

// NewState validates the query and returns the initial pipeline state.
func NewState(query string) (*State, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query must be a non-empty string")
	}
	return &State{
		Query:     strings.TrimSpace(query),
		Step:      StepFindOptions,
		StartedAt: time.Now(),
	}, nil
}

// advance moves the state to the next step, enforcing the transition table.
func (st *State) advance(next Step) error {
	if !st.Step.CanTransitionTo(next) {
		return fmt.Errorf("invalid step transition %s -> %s", st.Step, next)
	}
	st.Step = next
	return nil
}

// fail records the error and moves the state to the error step.
func (st *State) fail(err error) {
	st.Err = err
	st.Step = StepError
	st.FinishedAt = time.Now()
}
