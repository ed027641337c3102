package ui

import (
	"image"
	"image/color"

	"tinygo.org/x/tinyfont"
)

type base struct {
	screen  *Screen
	visible bool
}

func (b *base) attach(s *Screen) { b.screen = s }
func (b *base) Visible() bool     { return b.visible }

func (b *base) invalidate(r image.Rectangle) {
	if b.screen != nil {
		b.screen.Invalidate(r)
	}
}

// change runs mutate and invalidates the bounds before and after it.
func (b *base) change(bounds func() image.Rectangle, mutate func()) {
	old := bounds()
	mutate()
	if b.visible {
		b.invalidate(old)
		b.invalidate(bounds())
	}
}

// Dot is a filled circle centered on its position.
type Dot struct {
	base
	center  image.Point
	radius  int
	color   color.RGBA
	opacity float64
}

// NewDot returns a visible, opaque dot of the given radius.
func NewDot(center image.Point, radius int, c color.RGBA) *Dot {
	return &Dot{
		base:    base{visible: true},
		center:  center,
		radius:  radius,
		color:   c,
		opacity: 1,
	}
}

func (d *Dot) Position() image.Point { return d.center }
func (d *Dot) Color() color.RGBA     { return d.color }
func (d *Dot) Opacity() float64      { return d.opacity }

func (d *Dot) Bounds() image.Rectangle {
	r := d.radius
	return image.Rect(d.center.X-r, d.center.Y-r, d.center.X+r+1, d.center.Y+r+1)
}

func (d *Dot) SetPosition(x, y int) {
	p := image.Pt(x, y)
	if p == d.center {
		return
	}
	d.change(d.Bounds, func() { d.center = p })
}

func (d *Dot) SetColor(c color.RGBA) {
	if c == d.color {
		return
	}
	d.change(d.Bounds, func() { d.color = c })
}

// SetOpacity sets the blend factor, clamped to [0, 1].
func (d *Dot) SetOpacity(a float64) {
	a = min(max(a, 0), 1)
	if a == d.opacity {
		return
	}
	d.change(d.Bounds, func() { d.opacity = a })
}

func (d *Dot) SetVisible(v bool) {
	if v == d.visible {
		return
	}
	d.visible = v
	d.invalidate(d.Bounds())
}

func (d *Dot) Draw(c *Canvas) {
	r2 := d.radius * d.radius
	for dy := -d.radius; dy <= d.radius; dy++ {
		for dx := -d.radius; dx <= d.radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				c.Blend(d.center.X+dx, d.center.Y+dy, d.color, d.opacity)
			}
		}
	}
}

// Label is a single line of text. Its position is the top-left corner of
// the line box.
type Label struct {
	base
	pos   image.Point
	text  string
	color color.RGBA
	font  Font
}

// NewLabel returns a visible label with its line box at pos.
func NewLabel(pos image.Point, text string, f Font, c color.RGBA) *Label {
	return &Label{
		base:  base{visible: true},
		pos:   pos,
		text:  text,
		color: c,
		font:  f,
	}
}

func (l *Label) Text() string { return l.text }

func (l *Label) Bounds() image.Rectangle {
	left, right := l.font.span(l.text)
	return image.Rect(l.pos.X+left, l.pos.Y, l.pos.X+right, l.pos.Y+int(l.font.Height))
}

func (l *Label) SetPosition(x, y int) {
	p := image.Pt(x, y)
	if p == l.pos {
		return
	}
	l.change(l.Bounds, func() { l.pos = p })
}

func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.change(l.Bounds, func() { l.text = s })
}

func (l *Label) SetColor(c color.RGBA) {
	if c == l.color {
		return
	}
	l.change(l.Bounds, func() { l.color = c })
}

func (l *Label) SetVisible(v bool) {
	if v == l.visible {
		return
	}
	l.visible = v
	l.invalidate(l.Bounds())
}

func (l *Label) Draw(c *Canvas) {
	tinyfont.WriteLine(c, l.font.Face, int16(l.pos.X), int16(l.pos.Y)+l.font.Offset, l.text, l.color)
}

// Button is a label on a filled box that runs a callback when pressed.
type Button struct {
	Label
	fill    color.RGBA
	padding int
	onPress func()
}

// NewButton returns a button whose box has its top-left corner at pos.
func NewButton(pos image.Point, text string, f Font, fg, fill color.RGBA, onPress func()) *Button {
	const padding = 6
	return &Button{
		Label:   *NewLabel(pos.Add(image.Pt(padding, padding)), text, f, fg),
		fill:    fill,
		padding: padding,
		onPress: onPress,
	}
}

func (b *Button) Bounds() image.Rectangle {
	return b.Label.Bounds().Inset(-b.padding)
}

// SetPosition moves the top-left corner of the box.
func (b *Button) SetPosition(x, y int) {
	p := image.Pt(x+b.padding, y+b.padding)
	if p == b.pos {
		return
	}
	b.change(b.Bounds, func() { b.pos = p })
}

func (b *Button) SetText(s string) {
	if s == b.text {
		return
	}
	b.change(b.Bounds, func() { b.text = s })
}

func (b *Button) SetVisible(v bool) {
	if v == b.visible {
		return
	}
	b.visible = v
	b.invalidate(b.Bounds())
}

func (b *Button) Draw(c *Canvas) {
	c.Fill(b.Bounds(), b.fill)
	b.Label.Draw(c)
}

func (b *Button) Press() {
	if b.onPress != nil {
		b.onPress()
	}
}
