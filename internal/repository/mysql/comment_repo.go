package mysql

import (
	"context"

	"gorm.io/gorm"

	"Buzz_Board/internal/model"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

// BelongsToPost 被回复的评论必须属于同一帖子
func (r *CommentRepository) BelongsToPost(ctx context.Context, commentID, postID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND post_id = ?", commentID, postID).
		Count(&n).Error
	return n > 0, err
}
