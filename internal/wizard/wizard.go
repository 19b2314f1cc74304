package wizard

import (
	"context"
	"fmt"
)

// Step is a wizard page.
type Step string

const (
	StepLogin   Step = "login"
	StepHome    Step = "home"
	StepInput   Step = "input"
	StepLoad    Step = "load"
	StepResults Step = "results"
)

// Stage is one guarded backend call of a submission chain.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// StageError names the stage that stopped a pipeline.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

type EventKind string

const (
	StageStarted   EventKind = "started"
	StageSucceeded EventKind = "succeeded"
	StageFailed    EventKind = "failed"
)

// Event reports pipeline progress.
type Event struct {
	Pipeline string    `json:"pipeline"`
	Stage    string    `json:"stage"`
	Kind     EventKind `json:"kind"`
	Error    string    `json:"error,omitempty"`
}

// Observer receives events synchronously, in stage order.
type Observer func(Event)

// Pipeline runs its stages strictly in order and stops at the first failure.
// Nothing is retried or rolled back.
type Pipeline struct {
	Name     string
	Stages   []Stage
	Observer Observer
}

func (p *Pipeline) emit(ev Event) {
	if p.Observer != nil {
		p.Observer(ev)
	}
}

// Run returns nil when every stage succeeded, else a *StageError.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, st := range p.Stages {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: st.Name, Err: err}
		}
		p.emit(Event{Pipeline: p.Name, Stage: st.Name, Kind: StageStarted})
		if err := st.Run(ctx); err != nil {
			p.emit(Event{Pipeline: p.Name, Stage: st.Name, Kind: StageFailed, Error: err.Error()})
			return &StageError{Stage: st.Name, Err: err}
		}
		p.emit(Event{Pipeline: p.Name, Stage: st.Name, Kind: StageSucceeded})
	}
	return nil
}
