package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/model"
	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/repository/mysql"
	"Buzz_Board/internal/validate"
)

const msgFetchPosts = "Could not fetch posts"

type FilterKind int

const (
	Unfiltered FilterKind = iota
	ByCommunityName
	BySubscribedSet
)

func (k FilterKind) String() string {
	switch k {
	case ByCommunityName:
		return "buzz_name"
	case BySubscribedSet:
		return "subscribed"
	default:
		return "none"
	}
}

// FeedFilter 帖子列表过滤条件，Kind 决定哪个字段有效
type FeedFilter struct {
	Kind     FilterKind
	BuzzName string
	BuzzIDs  []uint64
}

type FeedService struct {
	posts   *mysql.PostRepository
	subs    *mysql.SubscriptionRepository
	metrics *pkg.Metrics
}

func NewFeedService(db *gorm.DB, metrics *pkg.Metrics) *FeedService {
	return &FeedService{
		posts:   &mysql.PostRepository{DB: db},
		subs:    &mysql.SubscriptionRepository{DB: db},
		metrics: metrics,
	}
}

// ResolveFilter buzzName 优先于登录态；都没有则不过滤
func (s *FeedService) ResolveFilter(ctx context.Context, q validate.FeedQuery, sess *pkg.Session) (FeedFilter, error) {
	if q.BuzzName != "" {
		return FeedFilter{Kind: ByCommunityName, BuzzName: q.BuzzName}, nil
	}
	if sess != nil {
		ids, err := s.subs.ListBuzzIDs(ctx, sess.UserID)
		if err != nil {
			return FeedFilter{}, errors.Wrap(err, "list subscribed buzz ids")
		}
		return FeedFilter{Kind: BySubscribedSet, BuzzIDs: ids}, nil
	}
	return FeedFilter{Kind: Unfiltered}, nil
}

// List 按 created_at DESC, id DESC 返回第 q.Page 页，每条附带 buzz、作者、投票和评论
func (s *FeedService) List(ctx context.Context, q validate.FeedQuery, sess *pkg.Session) ([]model.Post, error) {
	filter, err := s.ResolveFilter(ctx, q, sess)
	if err != nil {
		return nil, apperr.Internal(err, msgFetchPosts)
	}
	if s.metrics != nil {
		s.metrics.FeedQueries.WithLabelValues(filter.Kind.String()).Inc()
	}

	// 没有订阅任何社区时结果必然为空
	if filter.Kind == BySubscribedSet && len(filter.BuzzIDs) == 0 {
		return []model.Post{}, nil
	}

	scope := mysql.FeedScope{
		BuzzName: filter.BuzzName,
		BuzzIDs:  filter.BuzzIDs,
		Filtered: filter.Kind == BySubscribedSet,
	}
	posts, err := s.posts.ListFeed(ctx, scope, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "list feed"), msgFetchPosts)
	}
	return posts, nil
}
