package service

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"Buzz_Board/internal/model"
	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/repository/mysql"
)

const defaultMaxRetry = 10

type Sender func(ctx context.Context, ev *model.BuzzEvent) error

// EventRelayer 从 outbox 表拉取待投递事件交给 sender
type EventRelayer struct {
	repo      *mysql.EventRepository
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
	metrics   *pkg.Metrics
	log       *zap.Logger
}

func NewEventRelayer(db *gorm.DB, sender Sender, batchSize int, interval time.Duration, metrics *pkg.Metrics, log *zap.Logger) *EventRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &EventRelayer{
		repo:      &mysql.EventRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  defaultMaxRetry,
		sender:    sender,
		metrics:   metrics,
		log:       log,
	}
}

// Run 阻塞直到 ctx 取消
func (r *EventRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *EventRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ev := rows[i]
		if err = r.sender(ctx, &ev); err != nil {
			// 熔断期间不计重试，本批剩余事件留到下一轮
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				r.log.Warn("outbox sender circuit open, batch deferred",
					zap.Uint64("event", ev.ID), zap.Int("remaining", len(rows)-i))
				r.count("deferred")
				return
			}
			r.log.Warn("outbox send failed",
				zap.Uint64("event", ev.ID), zap.String("type", ev.EventType), zap.Int("retry", ev.Retry), zap.Error(err))
			r.count("failed")
			if uerr := r.repo.MarkRetry(ctx, &ev, r.maxRetry); uerr != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("event", ev.ID), zap.Error(uerr))
			}
			continue
		}
		r.count("sent")
		if uerr := r.repo.MarkSent(ctx, ev.ID); uerr != nil {
			r.log.Error("outbox sent update failed", zap.Uint64("event", ev.ID), zap.Error(uerr))
		}
	}
}

func (r *EventRelayer) count(result string) {
	if r.metrics != nil {
		r.metrics.EventsSent.WithLabelValues(result).Inc()
	}
}

// KafkaSender 以 buzz id 作为消息 key，保证同一社区的事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.BuzzEvent) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ev.BuzzID), []byte(ev.Payload))
	}
}

// LogSender 未配置 Kafka 时只记录日志
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ev *model.BuzzEvent) error {
		log.Info("outbox event",
			zap.String("type", ev.EventType),
			zap.Uint64("buzz", ev.BuzzID),
			zap.Uint64("user", ev.UserID),
			zap.String("payload", ev.Payload))
		return nil
	}
}
