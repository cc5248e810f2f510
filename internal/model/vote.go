package model

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Vote 每个用户对每个帖子最多一票
type Vote struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	PostID    uint64    `gorm:"not null;index;uniqueIndex:uk_vote_user_post" json:"postId"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_vote_user_post" json:"userId"`
	Type      VoteType  `gorm:"size:8;not null" json:"type"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Vote) TableName() string { return "votes" }
