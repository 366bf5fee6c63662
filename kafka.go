package nameserv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mvxns/nameserv/schema"
	"github.com/segmentio/kafka-go"
)

const DomainEventTopic = "nameserv_domain_event"

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(uri string) (*KWriter, error) {
	if uri == "" {
		return nil, errors.New("empty kafka uri")
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    DomainEventTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(key string, body []byte) error {
	return kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: body,
		},
	)
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

// publishEvent pushes a lifecycle event to the domain event stream, keyed
// by name so per-name ordering survives partitioning. Event loss is logged,
// never propagated to the caller.
func (r *Registrar) publishEvent(eventType, name, owner string, expiresAt, certNonce, at uint64) {
	if r.kw == nil {
		return
	}
	event := schema.DomainEvent{
		Type:      eventType,
		Name:      name,
		Owner:     owner,
		ExpiresAt: expiresAt,
		CertNonce: certNonce,
		At:        at,
	}
	body, err := json.Marshal(&event)
	if err != nil {
		log.Error("marshal domain event", "err", err, "name", name)
		return
	}
	if err := r.kw.Write(name, body); err != nil {
		log.Error("publish domain event", "err", err, "name", name, "type", eventType)
	}
}
