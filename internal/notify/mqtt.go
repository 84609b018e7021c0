package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"battery-scheduler/internal/config"
	"battery-scheduler/internal/report"
)

const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"

	defaultTimeout = 5 * time.Second
)

// publisher is the part of mqtt.Client the notifier needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes the daily schedule under a base topic:
//
//	<base>/schedule   JSON summary (retained)
//	<base>/t_night    "HH:MM" (retained)
//	<base>/t_even     "HH:MM" (retained)
//	<base>/message    rendered text
//	<base>/state      online/offline (retained, also the will)
type MQTTNotifier struct {
	client    mqtt.Client
	pub       publisher
	baseTopic string
	timeout   time.Duration
	log       *zap.Logger
}

func OptsFromConfig(cfg config.MQTTConfig) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("battery_scheduler_%d", rand.IntN(1000))
	}
	opts.SetClientID(clientID)
	if cfg.Username != "" && cfg.Password != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetWill(stateTopic(cfg.BaseTopic), PayloadOffline, 0, true)
	return opts
}

// NewMQTT creates a notifier with its own paho client. Call Connect before Notify.
func NewMQTT(cfg config.MQTTConfig, log *zap.Logger) *MQTTNotifier {
	opts := OptsFromConfig(cfg)
	n := newNotifier(nil, cfg.BaseTopic, log)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		n.log.Warn("mqtt connection lost", zap.Error(err))
	}
	n.client = mqtt.NewClient(opts)
	n.pub = n.client
	return n
}

func newNotifier(pub publisher, baseTopic string, log *zap.Logger) *MQTTNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &MQTTNotifier{pub: pub, baseTopic: baseTopic, timeout: defaultTimeout, log: log}
}

func (n *MQTTNotifier) Connect(ctx context.Context) error {
	if n.client == nil {
		return errors.New("mqtt client not configured")
	}
	if err := wait(ctx, n.client.Connect(), n.timeout, "connect"); err != nil {
		return err
	}
	return wait(ctx, n.pub.Publish(stateTopic(n.baseTopic), 0, true, PayloadOnline), n.timeout, "publish")
}

// Close marks the service offline and disconnects.
func (n *MQTTNotifier) Close() {
	if n.client == nil || !n.client.IsConnected() {
		return
	}
	tok := n.pub.Publish(stateTopic(n.baseTopic), 0, true, PayloadOffline)
	tok.WaitTimeout(n.timeout)
	n.client.Disconnect(250)
}

func (n *MQTTNotifier) Notify(ctx context.Context, s report.Summary) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	msgs := []struct {
		topic   string
		retain  bool
		payload any
	}{
		{n.baseTopic + "/schedule", true, doc},
		{n.baseTopic + "/t_night", true, s.TNight},
		{n.baseTopic + "/t_even", true, s.TEven},
		{n.baseTopic + "/message", false, s.Message()},
	}
	for _, m := range msgs {
		if err := wait(ctx, n.pub.Publish(m.topic, 1, m.retain, m.payload), n.timeout, "publish"); err != nil {
			return fmt.Errorf("%s: %w", m.topic, err)
		}
	}
	n.log.Info("schedule published",
		zap.String("topic", n.baseTopic),
		zap.String("date", s.Date),
		zap.String("t_night", s.TNight),
		zap.String("t_even", s.TEven),
	)
	return nil
}

func stateTopic(base string) string {
	return base + "/state"
}

func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration, op string) error {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-tok.Done():
		return tok.Error()
	case <-t.C:
		return fmt.Errorf("mqtt %s timed out", op)
	case <-ctx.Done():
		return ctx.Err()
	}
}
