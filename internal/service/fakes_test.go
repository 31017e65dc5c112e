package service

import (
	"context"
	"sync"
	"time"

	"workspace-be/internal/pkg/logger"
	"workspace-be/pkg/events"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

var nopLogger = logger.NewNopLogger()

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type opRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *opRecorder) record(parts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += ":"
		}
		s += p
	}
	r.ops = append(r.ops, s)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *opRecorder) ObserveWorkspaceOp(op, kind string, err error) { r.record(op, kind, result(err)) }
func (r *opRecorder) ObserveNoteOp(op string, err error)           { r.record(op, result(err)) }
