package model

import "time"

const (
	BuzzNameMin = 3
	BuzzNameMax = 21
)

type Buzz struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	CreatorID uint64    `gorm:"not null;index" json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Buzz) TableName() string { return "buzzes" }

// Subscription 用户与社区的订阅关系，(user_id, buzz_id) 唯一
type Subscription struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_buzz" json:"userId"`
	BuzzID    uint64    `gorm:"not null;index;uniqueIndex:uk_user_buzz" json:"buzzId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Subscription) TableName() string { return "subscriptions" }
