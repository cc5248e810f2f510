package mysql

import (
	"context"

	"gorm.io/gorm"

	"Buzz_Board/internal/model"
)

type PostRepository struct {
	DB *gorm.DB
}

// FeedScope 帖子列表过滤条件，BuzzName 与 BuzzIDs 至多一个生效
type FeedScope struct {
	BuzzName string
	BuzzIDs  []uint64
	Filtered bool
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	return &post, err
}

func (r *PostRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// ListFeed 偏移分页；同一时间点用 id 打破并列，保证翻页稳定
func (r *PostRepository) ListFeed(ctx context.Context, scope FeedScope, offset, limit int) ([]model.Post, error) {
	q := r.DB.WithContext(ctx).Model(&model.Post{})
	switch {
	case scope.BuzzName != "":
		q = q.Where("buzz_id IN (?)", r.DB.Model(&model.Buzz{}).Select("id").Where("name = ?", scope.BuzzName))
	case scope.Filtered:
		q = q.Where("buzz_id IN ?", scope.BuzzIDs)
	}

	list := make([]model.Post, 0, limit)
	err := q.
		Preload("Buzz").
		Preload("Author").
		Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
