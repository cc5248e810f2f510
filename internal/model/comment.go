package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"postId"`
	AuthorID  uint64    `gorm:"not null;index" json:"authorId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ReplyToID *uint64   `gorm:"index" json:"replyToId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }
