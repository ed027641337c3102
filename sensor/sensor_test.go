package sensor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"gforce/hal"
	"gforce/kernel"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *fakeLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLogger) count(substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.lines {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

type fakeIMU struct {
	m   hal.Motion
	err error
}

func (f *fakeIMU) ReadMotion() (hal.Motion, error) { return f.m, f.err }

type fakeBattery struct {
	v   float64
	err error
}

func (f *fakeBattery) ReadVoltage() (float64, error) { return f.v, f.err }

type fakeClock struct {
	t   time.Time
	err error
}

func (f *fakeClock) Now() (time.Time, error) { return f.t, f.err }

var errBus = errors.New("i2c nack")

func newTask(c *qt.C, imu *fakeIMU, bat *fakeBattery, rtc *fakeClock) (*Task, *kernel.Cell[Reading], *fakeLogger) {
	log := &fakeLogger{}
	cell := &kernel.Cell[Reading]{}
	cfg := Config{IMU: imu, Logger: log, Period: time.Millisecond}
	if bat != nil {
		cfg.Battery = bat
	}
	if rtc != nil {
		cfg.Clock = rtc
	}
	task, err := New(cfg, cell)
	c.Assert(err, qt.IsNil)
	return task, cell, log
}

func TestSampleOncePublishes(t *testing.T) {
	c := qt.New(t)

	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	task, cell, _ := newTask(c,
		&fakeIMU{m: hal.Motion{X: 1, Y: 2, Z: 9.81}},
		&fakeBattery{v: 3.9},
		&fakeClock{t: when},
	)

	r := task.SampleOnce()
	got, seq := cell.Load()
	c.Assert(seq, qt.Equals, uint64(1))
	c.Assert(got, qt.Equals, r)
	c.Assert(got.Motion, qt.Equals, hal.Motion{X: 1, Y: 2, Z: 9.81})
	c.Assert(got.Battery, qt.Equals, 3.9)
	c.Assert(got.Time.Equal(when), qt.IsTrue)
	c.Assert(got.Valid, qt.IsTrue)
	c.Assert(got.Seq, qt.Equals, uint64(1))
}

func TestFailedReadKeepsPreviousValue(t *testing.T) {
	c := qt.New(t)

	imu := &fakeIMU{m: hal.Motion{X: 1, Y: -1, Z: 9.81}}
	bat := &fakeBattery{v: 4.0}
	task, cell, log := newTask(c, imu, bat, &fakeClock{t: time.Unix(100, 0)})
	task.SampleOnce()

	imu.m = hal.Motion{X: 50, Y: 50, Z: 50}
	imu.err = errBus
	bat.v = 3.5
	for i := 0; i < 5; i++ {
		task.SampleOnce()
	}

	got, seq := cell.Load()
	c.Assert(seq, qt.Equals, uint64(6))
	c.Assert(got.Motion, qt.Equals, hal.Motion{X: 1, Y: -1, Z: 9.81})
	c.Assert(got.Battery, qt.Equals, 3.5)
	c.Assert(got.Valid, qt.IsTrue)
	// One line on entering the failure, none while it persists.
	c.Assert(log.count("imu read failed"), qt.Equals, 1)

	imu.err = nil
	task.SampleOnce()
	got, _ = cell.Load()
	c.Assert(got.Motion, qt.Equals, hal.Motion{X: 50, Y: 50, Z: 50})
	c.Assert(log.count("imu recovered"), qt.Equals, 1)
}

func TestNotValidBeforeFirstIMURead(t *testing.T) {
	c := qt.New(t)

	task, cell, _ := newTask(c, &fakeIMU{err: errBus}, &fakeBattery{v: 3.7}, &fakeClock{err: errBus})
	task.SampleOnce()
	got, _ := cell.Load()
	c.Assert(got.Valid, qt.IsFalse)
	c.Assert(got.Battery, qt.Equals, 3.7)
	c.Assert(got.Time.IsZero(), qt.IsTrue)
}

func TestOptionalPeripherals(t *testing.T) {
	c := qt.New(t)

	cell := &kernel.Cell[Reading]{}
	task, err := New(Config{
		IMU:    &fakeIMU{m: hal.Motion{Z: 9.81}},
		Logger: &fakeLogger{},
		Period: time.Millisecond,
	}, cell)
	c.Assert(err, qt.IsNil)
	r := task.SampleOnce()
	c.Assert(r.Valid, qt.IsTrue)
	c.Assert(r.Battery, qt.Equals, 0.0)
}

func TestNewRejectsMissingIMU(t *testing.T) {
	c := qt.New(t)

	_, err := New(Config{Logger: &fakeLogger{}, Period: time.Millisecond}, &kernel.Cell[Reading]{})
	c.Assert(errors.Is(err, hal.ErrNoDevice), qt.IsTrue)

	_, err = New(Config{IMU: &fakeIMU{}, Logger: &fakeLogger{}}, &kernel.Cell[Reading]{})
	c.Assert(err, qt.ErrorMatches, "sensor: invalid period .*")
}

func TestAxisMap(t *testing.T) {
	c := qt.New(t)

	m := hal.Motion{X: 1, Y: 2, Z: 3}
	c.Assert(AxisMap{}.Apply(m), qt.Equals, m)
	c.Assert(AxisMap{SwapXY: true}.Apply(m), qt.Equals, hal.Motion{X: 2, Y: 1, Z: 3})
	c.Assert(AxisMap{SwapXY: true, InvertX: true}.Apply(m), qt.Equals, hal.Motion{X: -2, Y: 1, Z: 3})
	c.Assert(AxisMap{InvertY: true}.Apply(m), qt.Equals, hal.Motion{X: 1, Y: -2, Z: 3})
}

type seqIMU struct {
	samples []hal.Motion
	errs    []error
	i       int
}

func (s *seqIMU) ReadMotion() (hal.Motion, error) {
	i := s.i
	s.i++
	if i < len(s.errs) && s.errs[i] != nil {
		return hal.Motion{}, s.errs[i]
	}
	return s.samples[i%len(s.samples)], nil
}

func TestCalibrate(t *testing.T) {
	c := qt.New(t)

	imu := &seqIMU{
		samples: []hal.Motion{{X: 0.2, Y: -0.4, Z: 9.8}, {X: 0.4, Y: -0.2, Z: 9.8}, {X: 100, Y: 100}},
		errs:    []error{nil, nil, errBus},
	}
	log := &fakeLogger{}
	cell := &kernel.Cell[Reading]{}
	task, err := New(Config{IMU: imu, Logger: log, Period: time.Millisecond}, cell)
	c.Assert(err, qt.IsNil)

	c.Assert(task.Calibrate(3), qt.IsNil)
	x, y := task.Offsets()
	c.Assert(x > 0.2999 && x < 0.3001, qt.IsTrue, qt.Commentf("x=%g", x))
	c.Assert(y > -0.3001 && y < -0.2999, qt.IsTrue, qt.Commentf("y=%g", y))
	c.Assert(log.count("calibrated from 2/3 samples"), qt.Equals, 1)

	imu.samples = []hal.Motion{{X: 0.3, Y: -0.3, Z: 9.8}}
	imu.errs = nil
	r := task.SampleOnce()
	c.Assert(r.Motion.X < 1e-9 && r.Motion.X > -1e-9, qt.IsTrue)
	c.Assert(r.Motion.Z, qt.Equals, 9.8)
}

func TestCalibrateNoSamples(t *testing.T) {
	c := qt.New(t)

	task, _, _ := newTask(c, &fakeIMU{err: errBus}, nil, nil)
	c.Assert(task.Calibrate(4), qt.Equals, ErrNoSamples)
}

func TestRunPublishesUntilCancelled(t *testing.T) {
	c := qt.New(t)

	task, cell, _ := newTask(c, &fakeIMU{m: hal.Motion{Z: 9.81}}, &fakeBattery{v: 4}, &fakeClock{t: time.Unix(0, 0)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- task.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for cell.Seq() < 3 {
		if time.Now().After(deadline) {
			c.Fatalf("sensor task published %d readings", cell.Seq())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	c.Assert(<-done, qt.Equals, context.Canceled)
}
