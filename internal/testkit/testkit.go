// Package testkit builds in-memory SQLite and Redis backends for tests.
package testkit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Buzz_Board/internal/model"
)

// NewTestDB 每个连接都会得到独立的 :memory: 库，所以连接池限制为 1
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func NewTestRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// CreateUser 写入一个随机用户，密码以 MinCost 哈希
func CreateUser(t testing.TB, db *gorm.DB, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Email:    gofakeit.DigitN(6) + gofakeit.Email(),
		Password: string(hash),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateBuzz(t testing.TB, db *gorm.DB, name string, creatorID uint64) *model.Buzz {
	t.Helper()
	b := &model.Buzz{Name: name, CreatorID: creatorID}
	require.NoError(t, db.Create(b).Error)
	return b
}

func Subscribe(t testing.TB, db *gorm.DB, userID, buzzID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&model.Subscription{UserID: userID, BuzzID: buzzID}).Error)
}

// CreatePost createdAt 显式给定，便于断言排序
func CreatePost(t testing.TB, db *gorm.DB, buzzID, authorID uint64, title string, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{BuzzID: buzzID, AuthorID: authorID, Title: title, Content: gofakeit.Sentence(8), CreatedAt: createdAt.UTC()}
	require.NoError(t, db.Create(p).Error)
	return p
}
