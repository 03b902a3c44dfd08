// Package events publishes chat lifecycle events to NATS with OpenTelemetry
// trace propagation in message headers. Publishing is fire-and-forget:
// event-bus failures are logged and never fail a query. A nil Publisher is
// a no-op, so the event bus stays optional.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// Subjects for chat lifecycle events.
const (
	SubjectAnswered = "voicedesk.chat.answered"
	SubjectCleared  = "voicedesk.chat.cleared"
)

// Answered describes one completed query.
type Answered struct {
	QueryChars  int       `json:"query_chars"`
	AnswerChars int       `json:"answer_chars"`
	Sources     int       `json:"sources"`
	Audio       bool      `json:"audio"`
	AudioFailed bool      `json:"audio_failed"`
	Duration    float64   `json:"duration_seconds"`
	Timestamp   time.Time `json:"timestamp"`
}

// Cleared marks a session history reset.
type Cleared struct {
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes chat events over a NATS connection.
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect dials NATS and returns a Publisher. An empty URL returns a nil
// Publisher, which disables publishing.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url, nats.Name("voicedesk"))
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return &Publisher{nc: nc, logger: logger}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Close()
}

// PublishAnswered publishes an Answered event.
func (p *Publisher) PublishAnswered(ctx context.Context, ev Answered) {
	p.publish(ctx, SubjectAnswered, ev)
}

// PublishCleared publishes a Cleared event.
func (p *Publisher) PublishCleared(ctx context.Context) {
	p.publish(ctx, SubjectCleared, Cleared{Timestamp: time.Now()})
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) {
	if p == nil || p.nc == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("event encode failed", "subject", subject, "err", err)
		return
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	if err := p.nc.PublishMsg(msg); err != nil {
		p.logger.Warn("event publish failed", "subject", subject, "err", err)
	}
}

// headerCarrier adapts nats.Msg headers for the OTel TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
