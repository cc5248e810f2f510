package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"Buzz_Board/internal/model"
)

type BuzzRepository struct {
	DB *gorm.DB
}

// BuzzCount 搜索结果附带的计数
type BuzzCount struct {
	Posts       int64 `json:"posts"`
	Subscribers int64 `json:"subscribers"`
}

type BuzzWithCount struct {
	model.Buzz
	Count BuzzCount `json:"_count"`
}

// Create 在同一事务内创建社区、创建者订阅和 buzz.created 事件
func (r *BuzzRepository) Create(ctx context.Context, b *model.Buzz) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Subscription{UserID: b.CreatorID, BuzzID: b.ID}).Error; err != nil {
			return err
		}
		return insertEvent(tx, model.EventBuzzCreated, b.ID, b.CreatorID)
	})
}

func (r *BuzzRepository) FindByID(ctx context.Context, id uint64) (*model.Buzz, error) {
	var b model.Buzz
	err := r.DB.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *BuzzRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Buzz{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

type searchRow struct {
	model.Buzz
	PostCount       int64
	SubscriberCount int64
}

// Search 名称子串匹配（不区分大小写），按名称排序
func (r *BuzzRepository) Search(ctx context.Context, q string, limit int) ([]BuzzWithCount, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	var rows []searchRow
	err := r.DB.WithContext(ctx).Model(&model.Buzz{}).
		Select(`buzzes.*,
			(SELECT COUNT(*) FROM posts WHERE posts.buzz_id = buzzes.id) AS post_count,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.buzz_id = buzzes.id) AS subscriber_count`).
		Where("LOWER(buzzes.name) LIKE ? ESCAPE '!'", pattern).
		Order("buzzes.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]BuzzWithCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, BuzzWithCount{
			Buzz:  row.Buzz,
			Count: BuzzCount{Posts: row.PostCount, Subscribers: row.SubscriberCount},
		})
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
