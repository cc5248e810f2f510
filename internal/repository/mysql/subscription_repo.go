package mysql

import (
	"context"

	"gorm.io/gorm"

	"Buzz_Board/internal/model"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID, buzzID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND buzz_id = ?", userID, buzzID).
		Count(&count).Error
	return count > 0, err
}

// Subscribe 插入订阅和 buzz.subscribed 事件；重复订阅由唯一索引兜底
func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, buzzID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Subscription{UserID: userID, BuzzID: buzzID}).Error; err != nil {
			return err
		}
		return insertEvent(tx, model.EventBuzzSubscribed, buzzID, userID)
	})
}

// Unsubscribe 删除订阅；未订阅时 removed=false 且不写事件
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, userID, buzzID uint64) (removed bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND buzz_id = ?", userID, buzzID).Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return insertEvent(tx, model.EventBuzzUnsubscribed, buzzID, userID)
	})
	return removed, err
}

// ListBuzzIDs 用户订阅的社区 id 集合
func (r *SubscriptionRepository) ListBuzzIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Order("buzz_id ASC").
		Pluck("buzz_id", &ids).Error
	return ids, err
}
