//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Config

	TPS   int
	Scale int
}

// RunWindow reports that the window needs cgo.
func RunWindow(_ WindowConfig, _ func(HAL) (func() error, error)) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
