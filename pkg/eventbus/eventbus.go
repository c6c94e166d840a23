// Package eventbus publie et consomme les événements de domaine sur NATS JetStream,
// en propageant le contexte de trace dans les headers.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Publisher est le port commun vers le broker.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Envelope est le format sur le fil de tous les événements.
type Envelope struct {
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type NatsPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect ouvre la connexion NATS.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// NewNatsPublisher s'assure que le Stream existe (Idempotent) puis retourne le publisher.
func NewNatsPublisher(ctx context.Context, nc *nats.Conn, stream string, subjects ...string) (*NatsPublisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: subjects,
		Storage:  jetstream.FileStorage,
		Replicas: 1, // Mettre 3 en cluster
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsPublisher{nc: nc, js: js}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	body, err := json.Marshal(Envelope{Subject: subject, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    body,
		Header:  nats.Header{},
	}
	// Injection du trace id dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	ack, err := p.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	slog.DebugContext(ctx, "📢 Event published", "subject", subject, "seq", ack.Sequence)
	return nil
}

func (p *NatsPublisher) Close() {
	p.nc.Close()
}

// NoopPublisher est utilisé quand NATS_URL est vide (dev, tests).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// Handler adapte une fonction métier en nats.MsgHandler : extraction du contexte
// de trace, span consumer, décodage de l'enveloppe.
func Handler(tracerName, spanName string, fn func(ctx context.Context, env Envelope) error) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

		ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindConsumer))
		defer span.End()

		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "❌ Invalid event format", "subject", msg.Subject, "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := fn(ctx, env); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "❌ Event handling failed", "subject", msg.Subject, "error", err)
		}
	}
}
