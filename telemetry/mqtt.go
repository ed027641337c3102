//go:build !tinygo

package telemetry

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"gforce/hal"
)

const (
	mqttConnectTimeout = 5 * time.Second
	mqttPublishTimeout = time.Second
)

// MQTTConfig selects the broker and topic.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

// MQTTSink publishes every frame as a text line with QoS 0.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// DialMQTT connects to the broker. The client reconnects on its own after
// the first connection succeeds.
func DialMQTT(cfg MQTTConfig) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("telemetry: mqtt broker not set")
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout)
	client := mqtt.NewClient(opts)

	tok := client.Connect()
	if !tok.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("telemetry: mqtt connect %s: %w", cfg.Broker, hal.ErrTimeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: mqtt connect %s: %w", cfg.Broker, err)
	}
	return newMQTTSink(client, cfg.Topic), nil
}

func newMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{client: client, topic: topic}
}

func (*MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Send(f Frame) error {
	if !s.client.IsConnectionOpen() {
		return errors.New("not connected")
	}
	tok := s.client.Publish(s.topic, 0, false, f.String())
	if !tok.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publish: %w", hal.ErrTimeout)
	}
	return tok.Error()
}

// Close disconnects, waiting briefly for queued messages.
func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
