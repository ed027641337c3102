package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func writeFile(c *qt.C, body string) string {
	path := filepath.Join(c.TempDir(), "gforce.yaml")
	c.Assert(os.WriteFile(path, []byte(body), 0o644), qt.IsNil)
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := qt.New(t)

	cfg := Default()
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Sensor.Period(), qt.Equals, 100*time.Millisecond)
	c.Assert(cfg.Render.Tick(), qt.Equals, 5*time.Millisecond)
	c.Assert(cfg.Render.AnimTick(), qt.Equals, 2*time.Millisecond)
	c.Assert(cfg.Telemetry.Interval(), qt.Equals, 150*time.Millisecond)
	c.Assert(cfg.Gauge.TrailLength, qt.Equals, 20)
}

func TestLoadOverridesDefaults(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, `
panel:
  width: 320
  height: 320
  double_buffer: false
sensor:
  period_ms: 50
  axes:
    swap_xy: true
gauge:
  pixels_per_g: 100
telemetry:
  mqtt:
    broker: tcp://localhost:1883
`)
	cfg, err := Load(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Panel, qt.Equals, PanelConfig{Width: 320, Height: 320, DoubleBuffer: false})
	c.Assert(cfg.Sensor.PeriodMs, qt.Equals, 50)
	c.Assert(cfg.Sensor.Axes.SwapXY, qt.IsTrue)
	c.Assert(cfg.Gauge.PixelsPerG, qt.Equals, 100.0)
	// Untouched fields keep their defaults.
	c.Assert(cfg.Gauge.LimitG, qt.Equals, 1.0)
	c.Assert(cfg.Telemetry.MQTT.Topic, qt.Equals, "gforce/telemetry")
	c.Assert(cfg.Telemetry.MQTT.Broker, qt.Equals, "tcp://localhost:1883")
}

func TestLoadMissingFile(t *testing.T) {
	c := qt.New(t)

	_, err := Load(filepath.Join(c.TempDir(), "nope.yaml"))
	c.Assert(err, qt.ErrorMatches, "read config: .*")
	c.Assert(errors.Is(err, fs.ErrNotExist), qt.IsTrue)
}

func TestLoadBadYAML(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, "panel: [")
	_, err := Load(path)
	c.Assert(err, qt.ErrorMatches, "parse config: .*")
}

func TestLoadRejectsInvalid(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, `
sensor:
  period_ms: 0
gauge:
  limit_g: -1
`)
	_, err := Load(path)
	c.Assert(err, qt.ErrorMatches, `(?s)invalid config: .*sensor.period_ms 0.*gauge.limit_g -1.*`)
}

func TestSampleFileMatchesDefault(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load(filepath.Join("..", "gforce.yaml"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Default())
}

func TestValidateRejectsNaNAndOutOfRange(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, `
gauge:
  pixels_per_g: .nan
  limit_g: .nan
  dot_radius: -1
intensity:
  turn_full_scale_g: .inf
  hold_decay: 1.5
  bounce_decay: -0.1
`)
	_, err := Load(path)
	c.Assert(err, qt.ErrorMatches, `(?s)invalid config: .*gauge.pixels_per_g NaN.*gauge.limit_g NaN.*`+
		`gauge.dot_radius -1.*intensity.turn_full_scale_g \+Inf.*intensity.hold_decay 1.5.*intensity.bounce_decay -0.1`)

	cfg := Default()
	cfg.Intensity.HoldDecay = math.NaN()
	c.Assert(cfg.Validate(), qt.ErrorMatches, `invalid config: intensity.hold_decay NaN`)
}

func TestDeviceIsSingleBuffered(t *testing.T) {
	c := qt.New(t)

	cfg := Device()
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Panel, qt.Equals, PanelConfig{Width: 320, Height: 320})
	c.Assert(cfg.Gauge, qt.Equals, Default().Gauge)
}
