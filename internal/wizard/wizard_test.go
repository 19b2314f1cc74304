package wizard

import (
	"context"
	"errors"
	"testing"
)

func TestRun_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	stage := func(name string, err error) Stage {
		return Stage{Name: name, Run: func(context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}
	var events []Event
	p := &Pipeline{
		Name:     "input",
		Stages:   []Stage{stage("a", nil), stage("b", boom), stage("c", nil)},
		Observer: func(e Event) { events = append(events, e) },
	}

	err := p.Run(context.Background())

	var se *StageError
	if !errors.As(err, &se) || se.Stage != "b" {
		t.Fatalf("error = %v; want StageError for b", err)
	}
	if !errors.Is(err, boom) {
		t.Error("StageError does not unwrap to the stage error")
	}
	if len(ran) != 2 || ran[1] != "b" {
		t.Errorf("ran = %v; want [a b]", ran)
	}
	wantKinds := []EventKind{StageStarted, StageSucceeded, StageStarted, StageFailed}
	if len(events) != len(wantKinds) {
		t.Fatalf("events = %+v", events)
	}
	for i, k := range wantKinds {
		if events[i].Kind != k {
			t.Errorf("event %d kind = %s; want %s", i, events[i].Kind, k)
		}
	}
	if events[3].Error != "boom" {
		t.Errorf("failed event error = %q", events[3].Error)
	}
}

func TestRun_AllSucceed(t *testing.T) {
	n := 0
	p := &Pipeline{Stages: []Stage{
		{Name: "a", Run: func(context.Context) error { n++; return nil }},
		{Name: "b", Run: func(context.Context) error { n++; return nil }},
	}}
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("stages run = %d; want 2", n)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	p := &Pipeline{Stages: []Stage{{Name: "a", Run: func(context.Context) error { called = true; return nil }}}}

	err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v; want context.Canceled", err)
	}
	if called {
		t.Error("stage ran on a cancelled context")
	}
}
