package app

import (
	"fmt"
	"image/color"
	"strings"

	"gforce/hal"
	"gforce/internal/buildinfo"
	"gforce/ui"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// fatalBG matches the terminal's default background.
var fatalBG = color.RGBA{A: 0xFF}

// FatalScreen draws err on panel as terminal text and flushes it. It
// allocates a full frame; use it only when no frame buffer exists yet.
func FatalScreen(panel hal.Panel, err error) error {
	if panel == nil {
		return fmt.Errorf("app: fatal screen: %w", hal.ErrNoDevice)
	}
	w, h := panel.Width(), panel.Height()
	stride := w * 2
	return drawFatal(panel, ui.NewCanvas(make([]byte, stride*h), w, h, stride), err)
}

// drawFatal renders the error text into cv, which must cover the whole
// panel, and flushes it.
func drawFatal(panel hal.Panel, cv *ui.Canvas, err error) error {
	cv.ResetClip()
	cv.Fill(cv.Bounds(), fatalBG)

	face := &proggy.TinySZ8pt7b
	font := ui.NewFont(face)
	term := tinyterm.NewTerminal(cv)
	term.Configure(&tinyterm.Config{
		Font:              face,
		FontHeight:        font.Height,
		FontOffset:        font.Offset,
		UseSoftwareScroll: true,
	})
	for _, line := range fatalLines(err) {
		fmt.Fprintf(term, "%s\n", line)
	}
	return panel.Flush(cv.Bounds(), cv.Pix(), cv.Stride())
}

func fatalLines(err error) []string {
	lines := []string{"G-Force fatal error", "build " + buildinfo.Short(), ""}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	// Wrapped errors read better one cause per line.
	for _, part := range strings.Split(msg, ": ") {
		if part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}

// Fatal logs err, shows it on the panel and halts the calling goroutine.
func Fatal(h hal.HAL, err error) {
	fatal(h, nil, err)
}

// fatal is Fatal drawing into cv when it is non-nil.
func fatal(h hal.HAL, cv *ui.Canvas, err error) {
	if h != nil {
		logFatal(h.Logger(), err)
		if p := h.Panel(); p != nil {
			var ferr error
			if cv != nil {
				ferr = drawFatal(p, cv, err)
			} else {
				ferr = FatalScreen(p, err)
			}
			if ferr != nil && h.Logger() != nil {
				h.Logger().WriteLineString(fmt.Sprintf("fatal: screen: %v", ferr))
			}
		}
	}
	select {}
}

func logFatal(l hal.Logger, err error) {
	if l == nil {
		return
	}
	for _, line := range fatalLines(err) {
		if line != "" {
			l.WriteLineString("fatal: " + line)
		}
	}
}
