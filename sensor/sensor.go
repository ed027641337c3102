// Package sensor runs the periodic unit of work that reads the IMU, battery
// monitor and RTC and publishes one consistent Reading per period.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gforce/hal"
	"gforce/kernel"
)

// Reading is the record shared between the sensor task and the render loop.
type Reading struct {
	Motion  hal.Motion
	Battery float64
	Time    time.Time
	Seq     uint64

	// Valid is false until the first successful IMU read.
	Valid bool
}

// AxisMap reorients raw IMU axes to the gauge convention: +x is right, +y is
// accelerating.
type AxisMap struct {
	SwapXY  bool
	InvertX bool
	InvertY bool
}

// Apply returns m reoriented.
func (a AxisMap) Apply(m hal.Motion) hal.Motion {
	if a.SwapXY {
		m.X, m.Y = m.Y, m.X
	}
	if a.InvertX {
		m.X = -m.X
	}
	if a.InvertY {
		m.Y = -m.Y
	}
	return m
}

// Config wires a Task.
type Config struct {
	IMU     hal.IMU
	Battery hal.Battery
	Clock   hal.Clock
	Logger  hal.Logger

	Period time.Duration
	Axes   AxisMap
}

// ErrNoSamples is returned by Calibrate when every read failed.
var ErrNoSamples = errors.New("sensor: no calibration samples")

// Task owns the sensor bus. It is the only writer of its cell.
type Task struct {
	imu    hal.IMU
	bat    hal.Battery
	rtc    hal.Clock
	log    hal.Logger
	period time.Duration
	axes   AxisMap

	cell *kernel.Cell[Reading]
	last Reading

	offX, offY float64

	imuFailing bool
	batFailing bool
	rtcFailing bool
}

// New returns a task publishing into cell. IMU, Logger and a positive Period
// are required; Battery and Clock are optional.
func New(cfg Config, cell *kernel.Cell[Reading]) (*Task, error) {
	if cfg.IMU == nil {
		return nil, fmt.Errorf("sensor: imu: %w", hal.ErrNoDevice)
	}
	if cfg.Logger == nil {
		return nil, errors.New("sensor: nil logger")
	}
	if cfg.Period <= 0 {
		return nil, fmt.Errorf("sensor: invalid period %v", cfg.Period)
	}
	if cell == nil {
		return nil, errors.New("sensor: nil cell")
	}
	return &Task{
		imu:    cfg.IMU,
		bat:    cfg.Battery,
		rtc:    cfg.Clock,
		log:    cfg.Logger,
		period: cfg.Period,
		axes:   cfg.Axes,
		cell:   cell,
	}, nil
}

// Offsets returns the calibration offsets in m/s².
func (t *Task) Offsets() (x, y float64) { return t.offX, t.offY }

// Calibrate averages n IMU samples taken with the device at rest and stores
// the X/Y averages as offsets. Z keeps gravity. Failed reads are skipped.
func (t *Task) Calibrate(n int) error {
	var sx, sy float64
	ok := 0
	for i := 0; i < n; i++ {
		m, err := t.imu.ReadMotion()
		if err != nil {
			continue
		}
		m = t.axes.Apply(m)
		sx += m.X
		sy += m.Y
		ok++
	}
	if ok == 0 {
		return ErrNoSamples
	}
	t.offX = sx / float64(ok)
	t.offY = sy / float64(ok)
	t.log.WriteLineString(fmt.Sprintf("sensor: calibrated from %d/%d samples, offset x=%.3f y=%.3f", ok, n, t.offX, t.offY))
	return nil
}

// SampleOnce performs one acquisition and publishes the merged reading.
// A failed read keeps the previous value of that field.
func (t *Task) SampleOnce() Reading {
	r := t.last

	m, err := t.imu.ReadMotion()
	t.report("imu", err, &t.imuFailing)
	if err == nil {
		m = t.axes.Apply(m)
		m.X -= t.offX
		m.Y -= t.offY
		r.Motion = m
		r.Valid = true
	}

	if t.bat != nil {
		v, err := t.bat.ReadVoltage()
		t.report("battery", err, &t.batFailing)
		if err == nil {
			r.Battery = v
		}
	}

	if t.rtc != nil {
		now, err := t.rtc.Now()
		t.report("rtc", err, &t.rtcFailing)
		if err == nil {
			r.Time = now
		}
	}

	r.Seq = t.last.Seq + 1
	t.cell.Publish(r)
	t.last = r
	return r
}

// report logs transitions between healthy and failing.
func (t *Task) report(dev string, err error, failing *bool) {
	switch {
	case err != nil && !*failing:
		*failing = true
		t.log.WriteLineString(fmt.Sprintf("sensor: %s read failed: %v", dev, err))
	case err == nil && *failing:
		*failing = false
		t.log.WriteLineString(fmt.Sprintf("sensor: %s recovered", dev))
	}
}

// Run samples once per period until ctx is done.
func (t *Task) Run(ctx context.Context) error {
	t.log.WriteLineString(fmt.Sprintf("sensor: running every %v", t.period))
	return kernel.Every(ctx, t.period, func(time.Time) error {
		t.SampleOnce()
		return nil
	})
}
