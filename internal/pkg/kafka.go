package pkg

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

type KafkaProducer struct {
	writer  *kafka.Writer
	topic   string
	breaker *gobreaker.CircuitBreaker
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 5 * time.Second,
	}
	// 连续失败 5 次熔断 30s，熔断期间直接失败，事件留在 outbox 等待下一轮
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "kafka-" + cfg.Topic,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &KafkaProducer{writer: w, topic: cfg.Topic, breaker: cb}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	return err
}

func MakeKeyFromID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
