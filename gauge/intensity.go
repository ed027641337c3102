package gauge

import "math"

// Band is a coarse turn-load level.
type Band uint8

const (
	BandGreen Band = iota
	BandYellow
	BandOrange
	BandRed
)

func (b Band) String() string {
	switch b {
	case BandGreen:
		return "GREEN"
	case BandYellow:
		return "YELLOW"
	case BandOrange:
		return "ORANGE"
	case BandRed:
		return "RED"
	default:
		return "unknown"
	}
}

// Intensity tracks decaying event indicators. Accel, Brake and Bounce jump
// to 1 when their threshold is crossed and decay geometrically on every
// update; Turn follows the lateral load directly.
type Intensity struct {
	AccelThreshold  float64 // g
	BounceThreshold float64 // g, deviation of z from 1 g
	TurnFullScale   float64 // g that maps to Turn == 1
	HoldDecay       float64
	BounceDecay     float64

	Accel, Brake float64
	Bounce       float64
	Turn         float64
}

// Update advances the indicators by one step. x, y, z are in g.
func (in *Intensity) Update(x, y, z float64) {
	switch {
	case y > in.AccelThreshold:
		in.Accel = 1
	case y < -in.AccelThreshold:
		in.Brake = 1
	}
	in.Accel *= in.HoldDecay
	in.Brake *= in.HoldDecay

	if math.Abs(z-1) > in.BounceThreshold {
		in.Bounce = 1
	}
	in.Bounce *= in.BounceDecay

	if in.TurnFullScale > 0 {
		in.Turn = clamp(math.Abs(x)/in.TurnFullScale, 0, 1)
	}
}

// Band classifies Turn.
func (in *Intensity) Band() Band {
	switch {
	case in.Turn > 0.75:
		return BandRed
	case in.Turn > 0.5:
		return BandOrange
	case in.Turn > 0.25:
		return BandYellow
	default:
		return BandGreen
	}
}

// Active reports the indicator states shown in telemetry.
func (in *Intensity) Active() (accel, brake, bounce bool) {
	return in.Accel > 0.2, in.Brake > 0.2, in.Bounce > 0.05
}

// Peak holds the largest absolute loads seen since the last Reset, in g.
type Peak struct {
	Lateral      float64
	Longitudinal float64
}

// Observe folds one sample (in g) into the peaks.
func (p *Peak) Observe(x, y float64) {
	if ax := math.Abs(x); ax > p.Lateral {
		p.Lateral = ax
	}
	if ay := math.Abs(y); ay > p.Longitudinal {
		p.Longitudinal = ay
	}
}

// Max returns the larger of the two peaks.
func (p *Peak) Max() float64 {
	return math.Max(p.Lateral, p.Longitudinal)
}

// Reset clears both peaks.
func (p *Peak) Reset() {
	*p = Peak{}
}
