// Package telemetry streams one-line motion summaries off the render path.
package telemetry

import (
	"context"
	"fmt"

	"gforce/gauge"
	"gforce/hal"
	"gforce/kernel"
)

// Frame is one telemetry record. Loads are in g.
type Frame struct {
	X, Y, Z float64
	Turn    gauge.Band

	Accel  bool
	Brake  bool
	Bounce bool
}

func state(on bool, color string) string {
	if on {
		return color
	}
	return "OFF"
}

func (f Frame) String() string {
	return fmt.Sprintf("X:%5.2f  Y:%5.2f  Z:%5.2f | TURN=%s | ACCEL=%s | BRAKE=%s | BOUNCE=%s",
		f.X, f.Y, f.Z, f.Turn,
		state(f.Accel, "GREEN"), state(f.Brake, "RED"), state(f.Bounce, "PURPLE"))
}

// Sink delivers frames somewhere.
type Sink interface {
	Name() string
	Send(f Frame) error
}

// Publisher decouples the render loop from slow sinks. Offer never blocks;
// Run drains the queue into every sink.
type Publisher struct {
	mb    *kernel.Mailbox[Frame]
	sinks []Sink
	log   hal.Logger

	failing map[string]bool
}

// NewPublisher returns a publisher delivering to sinks and logging to log.
func NewPublisher(log hal.Logger, sinks ...Sink) *Publisher {
	return &Publisher{
		mb:      kernel.NewMailbox[Frame](),
		sinks:   sinks,
		log:     log,
		failing: make(map[string]bool),
	}
}

// Offer queues f, dropping it if the queue is full.
func (p *Publisher) Offer(f Frame) bool { return p.mb.TrySend(f) }

// Dropped returns how many frames were dropped on a full queue.
func (p *Publisher) Dropped() uint64 { return p.mb.Dropped() }

// Run delivers queued frames until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		f, err := p.mb.Recv(ctx)
		if err != nil {
			return err
		}
		p.deliver(f)
	}
}

// Drain delivers every queued frame without blocking.
func (p *Publisher) Drain() {
	for {
		f, ok := p.mb.TryRecv()
		if !ok {
			return
		}
		p.deliver(f)
	}
}

func (p *Publisher) deliver(f Frame) {
	for _, s := range p.sinks {
		err := s.Send(f)
		name := s.Name()
		switch {
		case err != nil && !p.failing[name]:
			p.failing[name] = true
			p.log.WriteLineString(fmt.Sprintf("telemetry: %s: %v", name, err))
		case err == nil && p.failing[name]:
			p.failing[name] = false
			p.log.WriteLineString(fmt.Sprintf("telemetry: %s: recovered", name))
		}
	}
}

// LoggerSink writes each frame as a log line.
type LoggerSink struct {
	Logger hal.Logger
}

func (LoggerSink) Name() string { return "log" }

func (s LoggerSink) Send(f Frame) error {
	s.Logger.WriteLineString(f.String())
	return nil
}
