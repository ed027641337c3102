//go:build !tinygo

package hal

import "sync"

// hostTouch holds the last pointer state seen by the window. It reports no
// contact in headless mode.
type hostTouch struct {
	mu     sync.Mutex
	report TouchReport
}

func (t *hostTouch) set(pressed bool, x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !pressed {
		t.report = TouchReport{}
		return
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	t.report = TouchReport{Points: 1, X: uint16(x), Y: uint16(y)}
}

func (t *hostTouch) ReadTouch() (TouchReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report, nil
}
