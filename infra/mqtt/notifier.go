// Package mqtt publishes engine events to the external notification
// transport over MQTT. Delivery beyond the broker is someone else's
// problem; this is only the boundary adapter.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/uptimeworks/predmaint/core/events"
	"github.com/uptimeworks/predmaint/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	MaxRetries  int    `json:"max_retries"`
	BackoffMS   int    `json:"backoff_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "predmaint-" + uuid.NewString()[:8]
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "maintenance"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS == 0 {
		c.BackoffMS = 200
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when the notifier is enabled")
	}
	return nil
}

// Notifier forwards engine events to interested external systems.
type Notifier interface {
	Notify(ev events.Event) error
	Close()
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Hook for tests to substitute the underlying client.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoNotifier implements Notifier using Eclipse Paho.
type PahoNotifier struct {
	cli        pahoClient
	prefix     string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPahoNotifier connects to the broker and returns the notifier.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)

	n := &PahoNotifier{
		cli:        newMQTTClient(opts),
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        logger.New("mqtt_notifier"),
	}
	token := n.cli.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return n, nil
}

// Notify publishes the event to <prefix>/events/<kind>, retrying with a
// fixed backoff on transient publish failures.
func (n *PahoNotifier) Notify(ev events.Event) error {
	payload, err := json.Marshal(eventMessage(ev))
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/events/%s", n.prefix, ev.Kind)

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(n.backoff)
		}
		token := n.cli.Publish(topic, n.qos, false, payload)
		token.Wait()
		if lastErr = token.Error(); lastErr == nil {
			return nil
		}
		n.log.Warnf("publish %s attempt %d: %v", topic, attempt+1, lastErr)
	}
	return fmt.Errorf("publish %s: %w", topic, lastErr)
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() {
	n.cli.Disconnect(250)
}

type message struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Subject string         `json:"subject"`
	Time    time.Time      `json:"time"`
	Detail  map[string]any `json:"detail,omitempty"`
}

func eventMessage(ev events.Event) message {
	return message{
		ID:      uuid.NewString(),
		Kind:    string(ev.Kind),
		Subject: ev.Subject,
		Time:    ev.Time,
		Detail:  ev.Detail,
	}
}
