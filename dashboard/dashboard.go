// Package dashboard builds the g-force screen and maps sensor readings onto
// its widgets.
package dashboard

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/colornames"

	"gforce/config"
	"gforce/gauge"
	"gforce/sensor"
	"gforce/telemetry"
	"gforce/ui"
)

// Background is the screen color behind every widget.
var Background = colornames.Black

var (
	textColor  = colornames.White
	dimColor   = colornames.Darkgray
	buttonFill = colornames.Darkslategray
	trailColor = colornames.Deepskyblue

	bandColors = [...]color.RGBA{
		gauge.BandGreen:  colornames.Limegreen,
		gauge.BandYellow: colornames.Yellow,
		gauge.BandOrange: colornames.Orange,
		gauge.BandRed:    colornames.Red,
	}
)

const margin = 8

// Dashboard owns the widgets of the g-force screen.
type Dashboard struct {
	mapper    gauge.Mapper
	trail     *gauge.Trail
	intensity gauge.Intensity
	peak      gauge.Peak

	dot       *ui.Dot
	particles []*ui.Dot

	accel, brake *ui.Label
	left, right  *ui.Label
	battery      *ui.Label
	clock        *ui.Label
	peakLabel    *ui.Label
	reset        *ui.Button

	last    sensor.Reading
	applied bool
}

// New creates the widgets on screen, back to front: trail, dot, labels and
// the reset button.
func New(screen *ui.Screen, cfg config.Config) *Dashboard {
	b := screen.Bounds()
	g := cfg.Gauge
	cx, cy := g.CenterX, g.CenterY
	if cx == 0 && cy == 0 {
		cx, cy = b.Dx()/2, b.Dy()/2
	}
	d := &Dashboard{
		mapper: gauge.Mapper{
			Width:      b.Dx(),
			Height:     b.Dy(),
			CenterX:    cx,
			CenterY:    cy,
			Scale:      g.PixelsPerG,
			Limit:      g.LimitG,
			LabelScale: g.LabelScale,
			LabelMax:   g.LabelMax,
		},
		intensity: gauge.Intensity{
			AccelThreshold:  cfg.Intensity.AccelThresholdG,
			BounceThreshold: cfg.Intensity.BounceThresholdG,
			TurnFullScale:   cfg.Intensity.TurnFullScaleG,
			HoldDecay:       cfg.Intensity.HoldDecay,
			BounceDecay:     cfg.Intensity.BounceDecay,
		},
	}
	center := image.Pt(cx, cy)
	d.trail = gauge.NewTrail(g.TrailLength, center, g.TrailMinAlpha)

	particleRadius := max(g.DotRadius/2, 1)
	// Oldest particle first so newer ones draw on top.
	d.particles = make([]*ui.Dot, g.TrailLength)
	for i := g.TrailLength - 1; i >= 0; i-- {
		p := ui.NewDot(center, particleRadius, trailColor)
		p.SetOpacity(d.trail.Alpha(i))
		d.particles[i] = p
		screen.Add(p)
	}
	d.dot = ui.NewDot(center, g.DotRadius, bandColors[gauge.BandGreen])
	screen.Add(d.dot)

	small, large := ui.FontSmall, ui.FontLarge
	lh := int(large.Height)
	d.accel = ui.NewLabel(image.Pt(b.Dx()/2-40, margin), "Accel: 0", large, textColor)
	d.brake = ui.NewLabel(image.Pt(b.Dx()/2-40, b.Dy()-margin-lh), "Brake: 0", large, textColor)
	d.left = ui.NewLabel(image.Pt(margin, b.Dy()/2-lh/2), "Left: 0", large, textColor)
	d.right = ui.NewLabel(image.Pt(b.Dx()-margin-large.Width("Right: 00"), b.Dy()/2-lh/2), "Right: 0", large, textColor)
	d.battery = ui.NewLabel(image.Pt(margin, margin), "Bat --", small, dimColor)
	d.clock = ui.NewLabel(image.Pt(b.Dx()-margin-small.Width("00:00:00"), margin), "--:--:--", small, dimColor)
	d.peakLabel = ui.NewLabel(image.Pt(margin, b.Dy()-margin-int(small.Height)), "Peak 0.00g", small, dimColor)
	for _, l := range []*ui.Label{d.accel, d.brake, d.left, d.right, d.battery, d.clock, d.peakLabel} {
		screen.Add(l)
	}

	resetPos := image.Pt(b.Dx()-margin-small.Width("Reset")-16, b.Dy()-margin-int(small.Height)-12)
	d.reset = ui.NewButton(resetPos, "Reset", small, textColor, buttonFill, d.Reset)
	screen.Add(d.reset)
	return d
}

// Apply maps r onto the widgets. The trail, intensity and peak advance only
// when r carries a new sequence number, so applying the same reading again
// changes nothing.
func (d *Dashboard) Apply(r sensor.Reading) {
	fresh := !d.applied || r.Seq != d.last.Seq
	d.last = r
	d.applied = true
	if !r.Valid {
		return
	}

	m := r.Motion
	pos := d.mapper.Position(m.X, m.Y)
	d.dot.SetPosition(pos.X, pos.Y)

	if fresh {
		gx, gy, gz := gauge.G(m.X), gauge.G(m.Y), gauge.G(m.Z)
		d.intensity.Update(gx, gy, gz)
		d.peak.Observe(gx, gy)
		d.trail.Push(pos)
		d.syncTrail()
	}
	d.dot.SetColor(bandColors[d.intensity.Band()])

	ch := d.mapper.Channels(m.X, m.Y)
	d.accel.SetText(fmt.Sprintf("Accel: %d", ch.Accel))
	d.brake.SetText(fmt.Sprintf("Brake: %d", ch.Brake))
	d.left.SetText(fmt.Sprintf("Left: %d", ch.Left))
	d.right.SetText(fmt.Sprintf("Right: %d", ch.Right))

	if r.Battery > 0 {
		d.battery.SetText(fmt.Sprintf("Bat %.2fV", r.Battery))
	}
	if !r.Time.IsZero() {
		d.clock.SetText(r.Time.Format("15:04:05"))
	}
	d.peakLabel.SetText(fmt.Sprintf("Peak %.2fg", d.peak.Max()))
}

func (d *Dashboard) syncTrail() {
	for i, p := range d.particles {
		pt := d.trail.At(i)
		p.SetPosition(pt.X, pt.Y)
	}
}

// Reset clears the peaks and collapses the trail onto the dot.
func (d *Dashboard) Reset() {
	d.peak.Reset()
	d.trail.Fill(d.dot.Position())
	d.syncTrail()
	d.peakLabel.SetText(fmt.Sprintf("Peak %.2fg", d.peak.Max()))
}

// Telemetry summarizes the last applied reading.
func (d *Dashboard) Telemetry() telemetry.Frame {
	m := d.last.Motion
	accel, brake, bounce := d.intensity.Active()
	return telemetry.Frame{
		X:      gauge.G(m.X),
		Y:      gauge.G(m.Y),
		Z:      gauge.G(m.Z),
		Turn:   d.intensity.Band(),
		Accel:  accel,
		Brake:  brake,
		Bounce: bounce,
	}
}

// DotPosition returns the current gauge dot center.
func (d *Dashboard) DotPosition() image.Point { return d.dot.Position() }

// Labels returns the four channel label texts: accel, brake, left, right.
func (d *Dashboard) Labels() [4]string {
	return [4]string{d.accel.Text(), d.brake.Text(), d.left.Text(), d.right.Text()}
}

// ResetButton exposes the reset control for layout checks.
func (d *Dashboard) ResetButton() *ui.Button { return d.reset }
