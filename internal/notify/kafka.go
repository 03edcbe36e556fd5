package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func NewKafkaProducer(cfg Config, log logger.Logger) *kafkaProducer {
	c := &kafka.Client{
		Addr:    kafka.TCP(cfg.Brokers...),
		Timeout: time.Second * 5,
	}

	return &kafkaProducer{
		client: c,
		topic:  cfg.Topic,
		logger: log.With("kafka_producer"),
	}
}

type kafkaProducer struct {
	client *kafka.Client
	topic  string
	logger logger.Logger
}

func (p *kafkaProducer) Send(ctx context.Context, event Event) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return errors.WrapFail(err, "marshal event to json")
	}

	record := kafka.Record{
		Key:   kafka.NewBytes([]byte(event.IntervieweeID)),
		Value: kafka.NewBytes(bytes),
	}

	_, err = p.client.Produce(ctx, &kafka.ProduceRequest{
		Topic:        p.topic,
		RequiredAcks: 1,
		Records:      kafka.NewRecordReader(record),
	})
	if err != nil {
		return errors.WrapFail(err, "produce notification record")
	}

	p.logger.Debugf("sent %s event for interviewee %s", event.Kind, event.IntervieweeID)
	return nil
}
