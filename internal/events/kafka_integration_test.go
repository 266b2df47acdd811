//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"memberportal/internal/events"
	"memberportal/internal/platform/config"
	"memberportal/internal/platform/kafka"
	"memberportal/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	kafka *containers.KafkaContainer
	cfg   config.KafkaConfig
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.cfg = config.KafkaConfig{
		Brokers:           s.kafka.Brokers,
		Topic:             "memberportal.events.test",
		Partitions:        1,
		ReplicationFactor: 1,
	}
}

func (s *KafkaPublisherSuite) TestPublishThenConsume() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer, err := kafka.NewClient(s.cfg)
	s.Require().NoError(err)
	defer producer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, s.cfg, logger))
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, s.cfg, logger), "second call must tolerate an existing topic")

	pub := events.NewKafkaPublisher(producer, s.cfg.Topic)
	sent := events.New(events.MemberRegistered, "member-1", time.Now(), map[string]string{"membershipNumber": "MBR20260000001"})
	s.Require().NoError(pub.Publish(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ConsumeTopics(s.cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	var got events.Event
	fetches.EachRecord(func(r *kgo.Record) {
		if string(r.Key) == "member-1" {
			s.Require().NoError(json.Unmarshal(r.Value, &got))
		}
	})
	s.Equal(sent.ID, got.ID)
	s.Equal(events.MemberRegistered, got.Type)
}
