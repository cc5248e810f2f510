package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"Buzz_Board/internal/repository/redis"
	"Buzz_Board/internal/testkit"
)

func TestSearchService_CachesResults(t *testing.T) {
	db := testkit.NewTestDB(t)
	rdb, mr := testkit.NewTestRedis(t)
	ctx := context.Background()
	u := testkit.CreateUser(t, db, "password1")
	testkit.CreateBuzz(t, db, "golang", u.ID)

	cache := &redis.SearchCacheRepository{RDB: rdb, TTL: 30 * time.Second}
	svc := NewSearchService(db, cache, 10, zaptest.NewLogger(t))

	got, err := svc.Search(ctx, "  GO ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "golang", got[0].Name)
	assert.True(t, mr.Exists(redis.SearchKeyPrefix+"go"))

	// 缓存命中时不再查库
	testkit.CreateBuzz(t, db, "gopher", u.ID)
	got, err = svc.Search(ctx, "go")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	mr.FastForward(31 * time.Second)
	got, err = svc.Search(ctx, "go")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchService_BlankQuery(t *testing.T) {
	db := testkit.NewTestDB(t)
	svc := NewSearchService(db, nil, 10, zaptest.NewLogger(t))

	got, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchService_CacheDownFallsThrough(t *testing.T) {
	db := testkit.NewTestDB(t)
	rdb, mr := testkit.NewTestRedis(t)
	u := testkit.CreateUser(t, db, "password1")
	testkit.CreateBuzz(t, db, "golang", u.ID)
	mr.Close()

	svc := NewSearchService(db, &redis.SearchCacheRepository{RDB: rdb, TTL: time.Second}, 10, zaptest.NewLogger(t))
	got, err := svc.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
