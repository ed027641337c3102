//go:build !tinygo && cgo

package hal

import (
	"image"

	"gforce/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Config

	// TPS is the step rate; each Update calls the step function once.
	TPS   int
	Scale int
}

// RunWindow starts a desktop window that displays the panel and feeds the
// mouse (or first touch) to the touch controller. Arrow keys add 0.5 g of
// simulated load. It blocks until the window closes.
func RunWindow(cfg WindowConfig, newApp func(HAL) (func() error, error)) error {
	h, err := newHostHAL(cfg.Config, stdoutWriter())
	if err != nil {
		return err
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("G-Force (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.panel.width*cfg.Scale, h.panel.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.pollPointer()
	g.pollNudge()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) pollPointer() {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		g.h.touch.set(true, x, y)
		return
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.h.touch.set(true, x, y)
		return
	}
	g.h.touch.set(false, 0, 0)
}

func (g *hostGame) pollNudge() {
	const step = 0.5 * 9.81
	var x, y float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		x -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		x += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		y += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		y -= step
	}
	g.h.imu.nudge(x, y)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	p := g.h.panel
	if g.img == nil || g.img.Bounds().Dx() != p.width || g.img.Bounds().Dy() != p.height {
		g.img = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
		g.scratch = make([]byte, p.stride*p.height)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(p.width, p.height)
	}

	p.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := RGB888(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.panel.width, g.h.panel.height
}
