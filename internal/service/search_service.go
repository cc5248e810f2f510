package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/repository/mysql"
	"Buzz_Board/internal/repository/redis"
)

const msgSearch = "Could not search buzzes"

type SearchService struct {
	buzzes   *mysql.BuzzRepository
	cache    *redis.SearchCacheRepository
	maxItems int
	log      *zap.Logger
}

// NewSearchService cache 为 nil 时直接查库
func NewSearchService(db *gorm.DB, cache *redis.SearchCacheRepository, maxItems int, log *zap.Logger) *SearchService {
	return &SearchService{
		buzzes:   &mysql.BuzzRepository{DB: db},
		cache:    cache,
		maxItems: maxItems,
		log:      log,
	}
}

// Search 空查询直接返回空列表；缓存故障只记日志
func (s *SearchService) Search(ctx context.Context, q string) ([]mysql.BuzzWithCount, error) {
	key := strings.ToLower(strings.TrimSpace(q))
	if key == "" {
		return []mysql.BuzzWithCount{}, nil
	}

	if s.cache != nil {
		var cached []mysql.BuzzWithCount
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("search cache get failed", zap.String("q", key), zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	list, err := s.buzzes.Search(ctx, key, s.maxItems)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "search buzzes"), msgSearch)
	}

	if s.cache != nil {
		if err = s.cache.Set(ctx, key, list); err != nil {
			s.log.Warn("search cache set failed", zap.String("q", key), zap.Error(err))
		}
	}
	return list, nil
}
