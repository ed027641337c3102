package hal

import (
	"errors"
	"image"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoDevice       = errors.New("no device")
	ErrTimeout        = errors.New("timeout")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp little-endian: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// BytesPerPixel returns the storage size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB565:
		return 2
	default:
		return 0
	}
}

// Panel is the physical display.
type Panel interface {
	Width() int
	Height() int
	Format() PixelFormat

	// Flush transfers region r of pix (rows are stride bytes apart) to the
	// panel. It blocks until the panel has accepted the data; pix may be
	// written again once Flush returns.
	Flush(r image.Rectangle, pix []byte, stride int) error
}

// FramePanel is a Panel whose refresh hardware scans out directly from a
// software frame buffer.
type FramePanel interface {
	Panel

	// Present hands a full frame to scan-out. The buffer stays owned by the
	// panel until the next Present call returns.
	Present(pix []byte) error
}

// Motion is one accelerometer sample in m/s².
type Motion struct {
	X, Y, Z float64
}

// IMU reads the inertial sensor.
type IMU interface {
	ReadMotion() (Motion, error)
}

// Battery reads the battery monitor.
type Battery interface {
	ReadVoltage() (float64, error)
}

// Clock reads the real-time clock.
type Clock interface {
	Now() (time.Time, error)
}

// TouchReport is the raw output of the touch controller.
type TouchReport struct {
	Points uint8
	X, Y   uint16
}

// Touch reads the touch controller.
type Touch interface {
	ReadTouch() (TouchReport, error)
}

// HAL provides the only contact point between the pipeline and the device.
type HAL interface {
	Logger() Logger
	Panel() Panel
	Touch() Touch
	IMU() IMU
	Battery() Battery
	Clock() Clock
}
