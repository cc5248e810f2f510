package validate

import (
	"strings"

	"Buzz_Board/internal/model"
)

type PostPayload struct {
	BuzzID  uint64 `json:"buzzId" validate:"required"`
	Title   string `json:"title" validate:"min=3,max=128"`
	Content string `json:"content" validate:"max=20000"`
}

func ParsePost(p PostPayload) (PostPayload, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := Struct("invalid post payload", p); err != nil {
		return PostPayload{}, err
	}
	return p, nil
}

type VotePayload struct {
	PostID   uint64 `json:"postId" validate:"required"`
	VoteType string `json:"voteType" validate:"oneof=UP DOWN"`
}

func ParseVote(p VotePayload) (uint64, model.VoteType, error) {
	p.VoteType = strings.ToUpper(strings.TrimSpace(p.VoteType))
	if err := Struct("invalid vote payload", p); err != nil {
		return 0, "", err
	}
	return p.PostID, model.VoteType(p.VoteType), nil
}

type CommentPayload struct {
	PostID    uint64  `json:"postId" validate:"required"`
	Text      string  `json:"text" validate:"min=1,max=5000"`
	ReplyToID *uint64 `json:"replyToId"`
}

func ParseComment(p CommentPayload) (CommentPayload, error) {
	p.Text = strings.TrimSpace(p.Text)
	if err := Struct("invalid comment payload", p); err != nil {
		return CommentPayload{}, err
	}
	return p, nil
}
