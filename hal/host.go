//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Config selects the simulated device on the host.
type Config struct {
	Width  int
	Height int

	// Seed feeds the IMU noise generator; 0 picks a time-based seed.
	Seed int64
}

type hostHAL struct {
	logger *hostLogger
	panel  *hostPanel
	touch  *hostTouch
	imu    *hostIMU
	bat    *hostBattery
	clock  hostClock
}

// New returns a host HAL implementation.
func New(cfg Config) (HAL, error) {
	return newHostHAL(cfg, os.Stdout)
}

func newHostHAL(cfg Config, w io.Writer) (*hostHAL, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hal: invalid panel size %dx%d", cfg.Width, cfg.Height)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &hostHAL{
		logger: &hostLogger{w: w},
		panel:  newHostPanel(cfg.Width, cfg.Height),
		touch:  &hostTouch{},
		imu:    newHostIMU(seed),
		bat:    newHostBattery(),
	}, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Panel() Panel     { return h.panel }
func (h *hostHAL) Touch() Touch     { return h.touch }
func (h *hostHAL) IMU() IMU         { return h.imu }
func (h *hostHAL) Battery() Battery { return h.bat }
func (h *hostHAL) Clock() Clock     { return h.clock }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

const hostLogTime = "2006-01-02 15:04:05.000"

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s\n", time.Now().Format(hostLogTime), s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type hostClock struct{}

func (hostClock) Now() (time.Time, error) { return time.Now(), nil }
