package model

import "time"

const (
	EventBuzzCreated      = "buzz.created"
	EventBuzzSubscribed   = "buzz.subscribed"
	EventBuzzUnsubscribed = "buzz.unsubscribed"
)

const (
	EventPending int8 = 0
	EventSent    int8 = 1
	EventFailed  int8 = 2
)

// BuzzEvent 社区事件 outbox 表，与业务写入处于同一事务
type BuzzEvent struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   string `gorm:"size:36;uniqueIndex;not null"`
	EventType string `gorm:"size:32;not null"`
	BuzzID    uint64 `gorm:"not null"`
	UserID    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index"` // 0=pending,1=sent,2=failed
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BuzzEvent) TableName() string { return "buzz_events" }

// All 返回需要建表的全部模型
func All() []any {
	return []any{
		&User{},
		&Buzz{},
		&Subscription{},
		&Post{},
		&Vote{},
		&Comment{},
		&BuzzEvent{},
	}
}
