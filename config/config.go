// Package config holds the tunables of the gauge pipeline and loads them from
// YAML. Default carries the values observed on the reference device.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ─── Sections ───────────────────────────────────────────────────────────

// PanelConfig sizes the frame buffers.
type PanelConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// DoubleBuffer renders into an inactive buffer and swaps ownership with
	// the panel on every frame.
	DoubleBuffer bool `yaml:"double_buffer"`
}

// AxisConfig reorients the IMU to +x right, +y accelerating.
type AxisConfig struct {
	SwapXY  bool `yaml:"swap_xy"`
	InvertX bool `yaml:"invert_x"`
	InvertY bool `yaml:"invert_y"`
}

// SensorConfig drives the sensor task.
type SensorConfig struct {
	PeriodMs           int        `yaml:"period_ms"`
	CalibrationSamples int        `yaml:"calibration_samples"`
	Axes               AxisConfig `yaml:"axes"`
}

// GaugeConfig holds the dot mapping, labels and trail.
type GaugeConfig struct {
	// CenterX/CenterY of 0 mean the panel center.
	CenterX       int     `yaml:"center_x"`
	CenterY       int     `yaml:"center_y"`
	PixelsPerG    float64 `yaml:"pixels_per_g"`
	LimitG        float64 `yaml:"limit_g"`
	LabelScale    float64 `yaml:"label_scale"`
	LabelMax      int     `yaml:"label_max"`
	DotRadius     int     `yaml:"dot_radius"`
	TrailLength   int     `yaml:"trail_length"`
	TrailMinAlpha float64 `yaml:"trail_min_alpha"`
}

// IntensityConfig holds the event thresholds and decay factors.
type IntensityConfig struct {
	AccelThresholdG  float64 `yaml:"accel_threshold_g"`
	BounceThresholdG float64 `yaml:"bounce_threshold_g"`
	TurnFullScaleG   float64 `yaml:"turn_full_scale_g"`
	HoldDecay        float64 `yaml:"hold_decay"`
	BounceDecay      float64 `yaml:"bounce_decay"`
}

// RenderConfig holds the render loop timing.
type RenderConfig struct {
	TickMs     int `yaml:"tick_ms"`
	AnimTickMs int `yaml:"anim_tick_ms"`
	// MaxTicks stops the render loop after that many ticks; 0 runs forever.
	MaxTicks uint64 `yaml:"max_ticks"`
}

// MQTTConfig selects the telemetry broker. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// TelemetryConfig controls the telemetry side channel.
type TelemetryConfig struct {
	Enabled    bool       `yaml:"enabled"`
	IntervalMs int        `yaml:"interval_ms"`
	Log        bool       `yaml:"log"`
	MQTT       MQTTConfig `yaml:"mqtt"`
}

// Config is the top-level structure of gforce.yaml.
type Config struct {
	Panel     PanelConfig     `yaml:"panel"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Gauge     GaugeConfig     `yaml:"gauge"`
	Intensity IntensityConfig `yaml:"intensity"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Default returns the configuration of the 480x480 reference device.
func Default() Config {
	return Config{
		Panel: PanelConfig{Width: 480, Height: 480, DoubleBuffer: true},
		Sensor: SensorConfig{
			PeriodMs: 100,
		},
		Gauge: GaugeConfig{
			PixelsPerG:    150,
			LimitG:        1,
			LabelScale:    10,
			LabelMax:      99,
			DotRadius:     10,
			TrailLength:   20,
			TrailMinAlpha: 0.1,
		},
		Intensity: IntensityConfig{
			AccelThresholdG:  0.15,
			BounceThresholdG: 0.25,
			TurnFullScaleG:   0.3,
			HoldDecay:        0.95,
			BounceDecay:      0.90,
		},
		Render: RenderConfig{TickMs: 5, AnimTickMs: 2},
		Telemetry: TelemetryConfig{
			Enabled:    true,
			IntervalMs: 150,
			MQTT:       MQTTConfig{Topic: "gforce/telemetry", ClientID: "gforce"},
		},
	}
}

// Device returns the configuration of the 320x320 ILI9488 board. The panel
// keeps its own GRAM, so one software frame buffer is enough.
func Device() Config {
	cfg := Default()
	cfg.Panel = PanelConfig{Width: 320, Height: 320, DoubleBuffer: false}
	return cfg
}

// ─── Loaders ────────────────────────────────────────────────────────────

// Load reads path over Default. Fields missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Panel.Width <= 0 || c.Panel.Height <= 0 {
		errs = append(errs, fmt.Errorf("panel size %dx%d", c.Panel.Width, c.Panel.Height))
	}
	if c.Sensor.PeriodMs <= 0 {
		errs = append(errs, fmt.Errorf("sensor.period_ms %d", c.Sensor.PeriodMs))
	}
	if c.Sensor.CalibrationSamples < 0 {
		errs = append(errs, fmt.Errorf("sensor.calibration_samples %d", c.Sensor.CalibrationSamples))
	}
	if !positive(c.Gauge.PixelsPerG) {
		errs = append(errs, fmt.Errorf("gauge.pixels_per_g %g", c.Gauge.PixelsPerG))
	}
	if !positive(c.Gauge.LimitG) {
		errs = append(errs, fmt.Errorf("gauge.limit_g %g", c.Gauge.LimitG))
	}
	if !nonNegative(c.Gauge.LabelScale) {
		errs = append(errs, fmt.Errorf("gauge.label_scale %g", c.Gauge.LabelScale))
	}
	if c.Gauge.LabelMax < 0 {
		errs = append(errs, fmt.Errorf("gauge.label_max %d", c.Gauge.LabelMax))
	}
	if c.Gauge.TrailLength < 0 {
		errs = append(errs, fmt.Errorf("gauge.trail_length %d", c.Gauge.TrailLength))
	}
	if c.Gauge.DotRadius < 0 {
		errs = append(errs, fmt.Errorf("gauge.dot_radius %d", c.Gauge.DotRadius))
	}
	if !unit(c.Gauge.TrailMinAlpha) {
		errs = append(errs, fmt.Errorf("gauge.trail_min_alpha %g", c.Gauge.TrailMinAlpha))
	}
	in := c.Intensity
	if !nonNegative(in.AccelThresholdG) || !nonNegative(in.BounceThresholdG) {
		errs = append(errs, fmt.Errorf("intensity thresholds %g/%g g", in.AccelThresholdG, in.BounceThresholdG))
	}
	if !positive(in.TurnFullScaleG) {
		errs = append(errs, fmt.Errorf("intensity.turn_full_scale_g %g", in.TurnFullScaleG))
	}
	if !unit(in.HoldDecay) {
		errs = append(errs, fmt.Errorf("intensity.hold_decay %g", in.HoldDecay))
	}
	if !unit(in.BounceDecay) {
		errs = append(errs, fmt.Errorf("intensity.bounce_decay %g", in.BounceDecay))
	}
	if c.Render.TickMs <= 0 || c.Render.AnimTickMs <= 0 {
		errs = append(errs, fmt.Errorf("render ticks %d/%d ms", c.Render.TickMs, c.Render.AnimTickMs))
	}
	if c.Telemetry.Enabled && c.Telemetry.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.interval_ms %d", c.Telemetry.IntervalMs))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// The comparisons below are false for NaN.
func positive(v float64) bool    { return v > 0 && !math.IsInf(v, 1) }
func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 1) }
func unit(v float64) bool        { return v >= 0 && v <= 1 }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (c SensorConfig) Period() time.Duration      { return ms(c.PeriodMs) }
func (c RenderConfig) Tick() time.Duration        { return ms(c.TickMs) }
func (c RenderConfig) AnimTick() time.Duration    { return ms(c.AnimTickMs) }
func (c TelemetryConfig) Interval() time.Duration { return ms(c.IntervalMs) }
