package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/model"
	"Buzz_Board/internal/repository/mysql"
	"Buzz_Board/internal/validate"
)

const (
	MsgPostNotFound  = "Post not found"
	MsgNotSubscriber = "Subscribe to post"
	MsgReplyNotFound = "Reply target not found"

	msgCreatePost = "Could not create post at this time. Please try later"
	msgVote       = "Could not register your vote, please try again."
	msgComment    = "Could not create comment, please try again later"
)

type PostService struct {
	posts    *mysql.PostRepository
	buzzes   *mysql.BuzzRepository
	subs     *mysql.SubscriptionRepository
	votes    *mysql.VoteRepository
	comments *mysql.CommentRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		posts:    &mysql.PostRepository{DB: db},
		buzzes:   &mysql.BuzzRepository{DB: db},
		subs:     &mysql.SubscriptionRepository{DB: db},
		votes:    &mysql.VoteRepository{DB: db},
		comments: &mysql.CommentRepository{DB: db},
	}
}

// CreatePost 只有订阅者可以发帖
func (s *PostService) CreatePost(ctx context.Context, userID uint64, in validate.PostPayload) (*model.Post, error) {
	if _, err := s.buzzes.FindByID(ctx, in.BuzzID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(MsgBuzzNotFound)
		}
		return nil, apperr.Internal(errors.Wrap(err, "find buzz"), msgCreatePost)
	}

	ok, err := s.subs.Exists(ctx, userID, in.BuzzID)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "check subscription"), msgCreatePost)
	}
	if !ok {
		return nil, apperr.Forbidden(MsgNotSubscriber)
	}

	post := &model.Post{
		BuzzID:   in.BuzzID,
		AuthorID: userID,
		Title:    in.Title,
		Content:  in.Content,
	}
	if err = s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "create post"), msgCreatePost)
	}
	return post, nil
}

// Vote 返回当前票型，nil 表示已撤销
func (s *PostService) Vote(ctx context.Context, userID, postID uint64, vt model.VoteType) (*model.VoteType, error) {
	if err := s.requirePost(ctx, postID, msgVote); err != nil {
		return nil, err
	}
	current, err := s.votes.Toggle(ctx, userID, postID, vt)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "toggle vote"), msgVote)
	}
	return current, nil
}

func (s *PostService) Comment(ctx context.Context, userID uint64, in validate.CommentPayload) (*model.Comment, error) {
	if err := s.requirePost(ctx, in.PostID, msgComment); err != nil {
		return nil, err
	}
	if in.ReplyToID != nil {
		ok, err := s.comments.BelongsToPost(ctx, *in.ReplyToID, in.PostID)
		if err != nil {
			return nil, apperr.Internal(errors.Wrap(err, "check reply target"), msgComment)
		}
		if !ok {
			return nil, apperr.NotFound(MsgReplyNotFound)
		}
	}

	c := &model.Comment{
		PostID:    in.PostID,
		AuthorID:  userID,
		Text:      in.Text,
		ReplyToID: in.ReplyToID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "create comment"), msgComment)
	}
	return c, nil
}

func (s *PostService) requirePost(ctx context.Context, postID uint64, internalMsg string) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return apperr.Internal(errors.Wrap(err, "check post"), internalMsg)
	}
	if !ok {
		return apperr.NotFound(MsgPostNotFound)
	}
	return nil
}
