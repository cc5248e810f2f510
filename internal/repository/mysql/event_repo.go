package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Buzz_Board/internal/model"
)

type EventRepository struct {
	DB *gorm.DB
}

// insertEvent 写 outbox，必须传入业务事务 tx
func insertEvent(tx *gorm.DB, eventType string, buzzID, userID uint64) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(map[string]any{
		"event_id":   eventID,
		"event_type": eventType,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"buzz_id":    buzzID,
		"user_id":    userID,
	})
	if err != nil {
		return err
	}
	return tx.Create(&model.BuzzEvent{
		EventID:   eventID,
		EventType: eventType,
		BuzzID:    buzzID,
		UserID:    userID,
		Payload:   string(payload),
		Status:    model.EventPending,
	}).Error
}

// ListPending 按 id 顺序取待投递事件
func (r *EventRepository) ListPending(ctx context.Context, batchSize int) ([]model.BuzzEvent, error) {
	var list []model.BuzzEvent
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.EventPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkSent 投递成功
func (r *EventRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.BuzzEvent{}).Where("id = ?", id).
		Update("status", model.EventSent).Error
}

// MarkRetry 投递失败，retry+1；达到 maxRetry 后置为 failed 不再拉取
func (r *EventRepository) MarkRetry(ctx context.Context, ev *model.BuzzEvent, maxRetry int) error {
	retry := ev.Retry + 1
	status := model.EventPending
	if retry >= maxRetry {
		status = model.EventFailed
	}
	return r.DB.WithContext(ctx).Model(&model.BuzzEvent{}).Where("id = ?", ev.ID).
		Updates(map[string]any{"retry": retry, "status": status}).Error
}

func (r *EventRepository) ListByBuzz(ctx context.Context, buzzID uint64) ([]model.BuzzEvent, error) {
	var list []model.BuzzEvent
	err := r.DB.WithContext(ctx).Where("buzz_id = ?", buzzID).Order("id ASC").Find(&list).Error
	return list, err
}
