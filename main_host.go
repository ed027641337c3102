//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"gforce/app"
	"gforce/config"
	"gforce/hal"
	"gforce/telemetry"
)

func main() {
	var (
		cfgPath  string
		headless bool
		ticks    uint64
		double   bool
		single   bool
		broker   string
		seed     int64
		scale    int
	)
	flag.StringVar(&cfgPath, "config", "", "YAML configuration file.")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.Uint64Var(&ticks, "ticks", 0, "Stop after N render ticks (0 = run forever).")
	flag.BoolVar(&double, "double", false, "Force double buffering.")
	flag.BoolVar(&single, "single", false, "Force single buffering.")
	flag.StringVar(&broker, "mqtt", "", "MQTT broker URL for telemetry, e.g. tcp://localhost:1883.")
	flag.Int64Var(&seed, "seed", 0, "Seed for the simulated IMU (0 = time based).")
	flag.IntVar(&scale, "scale", 1, "Window scale factor.")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fail(err)
		}
	}
	if ticks > 0 {
		cfg.Render.MaxTicks = ticks
	}
	switch {
	case double:
		cfg.Panel.DoubleBuffer = true
	case single:
		cfg.Panel.DoubleBuffer = false
	}
	if broker != "" {
		cfg.Telemetry.MQTT.Broker = broker
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sinks []telemetry.Sink
	if cfg.Telemetry.Enabled && cfg.Telemetry.MQTT.Broker != "" {
		m := cfg.Telemetry.MQTT
		sink, err := telemetry.DialMQTT(telemetry.MQTTConfig{Broker: m.Broker, Topic: m.Topic, ClientID: m.ClientID})
		if err != nil {
			fail(err)
		}
		defer sink.Close()
		sinks = append(sinks, sink)
	}

	halCfg := hal.Config{Width: cfg.Panel.Width, Height: cfg.Panel.Height, Seed: seed}

	if headless {
		err := hal.RunHeadless(ctx, halCfg, func(ctx context.Context, h hal.HAL) error {
			s, err := app.New(h, cfg, sinks...)
			if err != nil {
				return err
			}
			return s.Start(ctx)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
		return
	}

	err := hal.RunWindow(hal.WindowConfig{
		Config: halCfg,
		TPS:    1000 / cfg.Render.TickMs,
		Scale:  scale,
	}, func(h hal.HAL) (func() error, error) {
		s, err := app.New(h, cfg, sinks...)
		if err != nil {
			return nil, err
		}
		s.StartBackground(ctx)
		return s.Step, nil
	})
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
