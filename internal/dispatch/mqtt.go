package dispatch

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// MQTTConfig configures the optional MQTT publisher sink (spec §6).
type MQTTConfig struct {
	Enabled bool
	Server  string
	Port    int
	Auth    bool
	User    string
	Pass    string
	Topic   string
}

// MQTTPublisher serializes Records as JSON and publishes them to a
// configured topic. Failure is logged per-record and never
// propagated (spec §4.7, §7).
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	log    *log.Logger
}

// NewMQTTPublisher connects to the broker described by cfg. The
// connection is established eagerly; publish failures thereafter are
// non-fatal and only logged.
func NewMQTTPublisher(cfg MQTTConfig, logger *log.Logger) (*MQTTPublisher, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Server, cfg.Port)).
		SetClientID(fmt.Sprintf("growatt-proxy-%d", time.Now().UnixNano())).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	if cfg.Auth {
		opts.SetUsername(cfg.User)
		opts.SetPassword(cfg.Pass)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("dispatch: mqtt connect to %s:%d failed: %w", cfg.Server, cfg.Port, token.Error())
	}

	return &MQTTPublisher{client: client, topic: cfg.Topic, log: logger}, nil
}

// Publish serializes record as JSON and publishes it to the
// configured topic. Errors are logged, not returned — callers invoke
// this as a fire-and-forget sink.
func (p *MQTTPublisher) Publish(record Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		p.log.WithError(err).Warn("dispatch: failed to marshal record for mqtt")
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		p.log.WithError(token.Error()).Warn("dispatch: mqtt publish failed")
	}
}

// Close disconnects the MQTT client.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
