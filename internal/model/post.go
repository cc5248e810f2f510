package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey;index:idx_buzz_time_id,priority:3" json:"id"`
	BuzzID    uint64    `gorm:"not null;index:idx_buzz_time_id,priority:1" json:"buzzId"`
	AuthorID  uint64    `gorm:"not null;index" json:"authorId"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_buzz_time_id,priority:2;index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Buzz     *Buzz     `gorm:"foreignKey:BuzzID" json:"buzz,omitempty"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Votes    []Vote    `gorm:"foreignKey:PostID" json:"votes"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments"`
}

func (Post) TableName() string { return "posts" }
