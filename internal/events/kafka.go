package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"
)

var publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "memberportal_events_published_total",
	Help: "Events produced to Kafka by type and result",
}, []string{"type", "result"})

// KafkaPublisher produces events to a single topic keyed by subject, so all
// events about one registration or member stay ordered on one partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(client *kgo.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(e.Subject),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		publishedTotal.WithLabelValues(string(e.Type), "error").Inc()
		return fmt.Errorf("produce %s: %w", e.Type, err)
	}
	publishedTotal.WithLabelValues(string(e.Type), "ok").Inc()
	return nil
}
