// Package app wires the sensor task, the render loop and telemetry onto a
// HAL.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gforce/compositor"
	"gforce/config"
	"gforce/dashboard"
	"gforce/hal"
	"gforce/input"
	"gforce/internal/buildinfo"
	"gforce/kernel"
	"gforce/scheduler"
	"gforce/sensor"
	"gforce/telemetry"
	"gforce/ui"
)

// System is the assembled pipeline.
type System struct {
	cfg config.Config
	log hal.Logger

	cell   *kernel.Cell[sensor.Reading]
	clock  *kernel.Clock
	sensor *sensor.Task
	screen *ui.Screen
	dash   *dashboard.Dashboard
	comp   *compositor.Compositor
	sched  *scheduler.Scheduler
	pub    *telemetry.Publisher

	bg sync.WaitGroup
}

// New builds the pipeline. Extra sinks receive telemetry alongside the
// configured ones. Missing required peripherals are reported as errors.
func New(h hal.HAL, cfg config.Config, sinks ...telemetry.Sink) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := h.Logger()
	if log == nil {
		return nil, fmt.Errorf("app: logger: %w", hal.ErrNoDevice)
	}
	panel := h.Panel()
	if panel == nil {
		return nil, fmt.Errorf("app: panel: %w", hal.ErrNoDevice)
	}
	w, ht := panel.Width(), panel.Height()
	if w != cfg.Panel.Width || ht != cfg.Panel.Height {
		log.WriteLineString(fmt.Sprintf("app: panel is %dx%d, config says %dx%d; using the panel",
			w, ht, cfg.Panel.Width, cfg.Panel.Height))
		cfg.Panel.Width, cfg.Panel.Height = w, ht
	}

	s := &System{
		cfg:   cfg,
		log:   log,
		cell:  &kernel.Cell[sensor.Reading]{},
		clock: kernel.NewClock(cfg.Render.AnimTick()),
	}

	var err error
	s.sensor, err = sensor.New(sensor.Config{
		IMU:     h.IMU(),
		Battery: h.Battery(),
		Clock:   h.Clock(),
		Logger:  log,
		Period:  cfg.Sensor.Period(),
		Axes:    sensor.AxisMap(cfg.Sensor.Axes),
	}, s.cell)
	if err != nil {
		return nil, err
	}
	if n := cfg.Sensor.CalibrationSamples; n > 0 {
		if err := s.sensor.Calibrate(n); err != nil {
			return nil, fmt.Errorf("app: calibrate: %w", err)
		}
	}
	// Publish once so the first frame shows a real reading.
	s.sensor.SampleOnce()

	s.screen = ui.NewScreen(w, ht, dashboard.Background)
	s.dash = dashboard.New(s.screen, cfg)
	s.comp, err = compositor.New(panel, s.screen, log, cfg.Panel.DoubleBuffer)
	if err != nil {
		return nil, err
	}

	s.sched, err = scheduler.New(scheduler.Config{
		Input:      input.NewSampler(h.Touch(), w, ht),
		Screen:     s.screen,
		Cell:       s.cell,
		View:       s.dash,
		Compositor: s.comp,
		Clock:      s.clock,
		Logger:     log,
		Period:     cfg.Render.Tick(),
		MaxTicks:   cfg.Render.MaxTicks,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.Log {
			sinks = append(sinks, telemetry.LoggerSink{Logger: log})
		}
		if len(sinks) > 0 {
			s.pub = telemetry.NewPublisher(log, sinks...)
			s.sched.Every("telemetry", cfg.Telemetry.Interval(), func() {
				s.pub.Offer(s.dash.Telemetry())
			})
		}
	}

	log.WriteLineString(fmt.Sprintf("app: gforce %s, panel %dx%d, double buffer %v",
		buildinfo.Line(), w, ht, s.comp.Double()))
	return s, nil
}

// Start launches the background units of work and runs the render loop on
// the calling goroutine. It returns when ctx is done, when the configured
// tick budget is spent, or on a fatal render error.
func (s *System) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.bg.Wait()
	}()
	s.StartBackground(ctx)
	return s.sched.Run(ctx)
}

// StartBackground starts the animation clock, the sensor task and the
// telemetry publisher. They stop when ctx is done.
func (s *System) StartBackground(ctx context.Context) {
	s.clock.Start(ctx)
	s.goRun(ctx, "sensor", s.sensor.Run)
	if s.pub != nil {
		s.goRun(ctx, "telemetry", s.pub.Run)
	}
}

func (s *System) goRun(ctx context.Context, name string, run func(context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.log.WriteLineString(fmt.Sprintf("app: %s stopped: %v", name, err))
		}
	}()
}

// Step runs one render tick. It is used when an external loop, such as a
// desktop window, owns the timing.
func (s *System) Step() error {
	return s.sched.Tick(time.Now())
}

// Frames returns the number of frames handed to the panel.
func (s *System) Frames() uint64 { return s.comp.Frames() }

// Latest returns the most recent sensor reading.
func (s *System) Latest() sensor.Reading {
	r, _ := s.cell.Load()
	return r
}

// Dashboard exposes the screen model, mainly for tests.
func (s *System) Dashboard() *dashboard.Dashboard { return s.dash }
