package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Buzz_Board/internal/model"
)

type VoteRepository struct {
	DB *gorm.DB
}

// Toggle 无票则新建；同类型再投则撤销；不同类型则切换。返回当前票型，nil 表示已撤销
func (r *VoteRepository) Toggle(ctx context.Context, userID, postID uint64, vt model.VoteType) (*model.VoteType, error) {
	var current *model.VoteType
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err = tx.Create(&model.Vote{UserID: userID, PostID: postID, Type: vt}).Error; err != nil {
				return err
			}
			current = &vt
			return nil
		}
		if err != nil {
			return err
		}
		if v.Type == vt {
			return tx.Delete(&v).Error
		}
		if err = tx.Model(&v).Update("type", vt).Error; err != nil {
			return err
		}
		current = &vt
		return nil
	})
	return current, err
}
