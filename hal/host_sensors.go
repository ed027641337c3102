//go:build !tinygo

package hal

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// hostIMU simulates a car driving a figure eight: lateral load swings at
// twice the longitudinal rate, plus sensor noise.
type hostIMU struct {
	mu    sync.Mutex
	rng   *rand.Rand
	start time.Time

	// Extra load injected from the window's arrow keys, in m/s².
	nudgeX, nudgeY float64
}

func newHostIMU(seed int64) *hostIMU {
	return &hostIMU{rng: rand.New(rand.NewSource(seed)), start: time.Now()}
}

func (m *hostIMU) ReadMotion() (Motion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := time.Since(m.start).Seconds()
	return Motion{
		X: 6.0*math.Sin(t*0.9) + m.rng.Float64()*0.2 - 0.1 + m.nudgeX,
		Y: 3.5*math.Sin(t*0.45) + m.rng.Float64()*0.2 - 0.1 + m.nudgeY,
		Z: 9.81 + 0.8*math.Sin(t*7) + m.rng.Float64()*0.05,
	}, nil
}

func (m *hostIMU) nudge(x, y float64) {
	m.mu.Lock()
	m.nudgeX, m.nudgeY = x, y
	m.mu.Unlock()
}

// hostBattery drains linearly from a full cell over an hour.
type hostBattery struct {
	start time.Time
}

func newHostBattery() *hostBattery {
	return &hostBattery{start: time.Now()}
}

func (b *hostBattery) ReadVoltage() (float64, error) {
	const (
		full  = 4.15
		empty = 3.30
	)
	frac := time.Since(b.start).Hours()
	if frac > 1 {
		frac = 1
	}
	return full - (full-empty)*frac, nil
}
