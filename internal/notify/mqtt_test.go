package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"battery-scheduler/internal/config"
	"battery-scheduler/internal/report"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                      { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}           { return t.done }
func (t *fakeToken) Error() error                    { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  interface{}
}

type fakePublisher struct {
	sent  []published
	token func(topic string) mqtt.Token
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.sent = append(p.sent, published{topic, qos, retained, payload})
	if p.token != nil {
		return p.token(topic)
	}
	return doneToken(nil)
}

func summary() report.Summary {
	return report.Summary{
		Date:          "2025-06-01",
		TNight:        "02:15",
		TEven:         "18:00",
		GridImportKWh: 1.5,
		SOCEndPct:     95,
	}
}

func TestMQTTNotifier_Notify(t *testing.T) {
	pub := &fakePublisher{}
	n := newNotifier(pub, "home/battery", nil)

	require.NoError(t, n.Notify(context.Background(), summary()))
	require.Len(t, pub.sent, 4)

	assert.Equal(t, "home/battery/schedule", pub.sent[0].topic)
	assert.True(t, pub.sent[0].retained)
	var got report.Summary
	require.NoError(t, json.Unmarshal(pub.sent[0].payload.([]byte), &got))
	assert.Equal(t, summary(), got)

	assert.Equal(t, "home/battery/t_night", pub.sent[1].topic)
	assert.Equal(t, "02:15", pub.sent[1].payload)
	assert.Equal(t, "18:00", pub.sent[2].payload)

	assert.Equal(t, "home/battery/message", pub.sent[3].topic)
	assert.False(t, pub.sent[3].retained)
	assert.Contains(t, pub.sent[3].payload, "Night switch (to battery): 02:15")
}

func TestMQTTNotifier_PublishError(t *testing.T) {
	pub := &fakePublisher{token: func(topic string) mqtt.Token {
		if topic == "b/t_night" {
			return doneToken(errors.New("not authorized"))
		}
		return doneToken(nil)
	}}
	n := newNotifier(pub, "b", nil)

	err := n.Notify(context.Background(), summary())
	assert.ErrorContains(t, err, "b/t_night: not authorized")
	assert.Len(t, pub.sent, 2)
}

func TestMQTTNotifier_Timeout(t *testing.T) {
	pub := &fakePublisher{token: func(string) mqtt.Token {
		return &fakeToken{done: make(chan struct{})}
	}}
	n := newNotifier(pub, "b", nil)
	n.timeout = 10 * time.Millisecond

	err := n.Notify(context.Background(), summary())
	assert.ErrorContains(t, err, "timed out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.timeout = time.Minute
	assert.ErrorIs(t, n.Notify(ctx, summary()), context.Canceled)
}

func TestOptsFromConfig(t *testing.T) {
	opts := OptsFromConfig(config.MQTTConfig{
		Host: "broker", Port: 1884, Username: "u", Password: "p", BaseTopic: "bs", ClientID: "me",
	})
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://broker:1884", opts.Servers[0].String())
	assert.Equal(t, "me", opts.ClientID)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "bs/state", opts.WillTopic)
	assert.Equal(t, []byte(PayloadOffline), opts.WillPayload)
	assert.True(t, opts.WillRetained)

	opts = OptsFromConfig(config.MQTTConfig{Host: "h", Port: 1883, BaseTopic: "bs"})
	assert.Contains(t, opts.ClientID, "battery_scheduler_")
	assert.Empty(t, opts.Username)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, LogNotifier{Log: zap.New(core)}.Notify(context.Background(), summary()))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "02:15", logs.All()[0].ContextMap()["t_night"])
}
