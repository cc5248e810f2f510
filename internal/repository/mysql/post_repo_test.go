package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Buzz_Board/internal/model"
	"Buzz_Board/internal/testkit"
)

func postIDs(posts []model.Post) []uint64 {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostRepository_ListFeedOrderAndTieBreak(t *testing.T) {
	db := testkit.NewTestDB(t)
	ctx := context.Background()
	u := testkit.CreateUser(t, db, "password1")
	b := testkit.CreateBuzz(t, db, "golang", u.ID)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p1 := testkit.CreatePost(t, db, b.ID, u.ID, "oldest", base)
	p2 := testkit.CreatePost(t, db, b.ID, u.ID, "tie-a", base.Add(time.Hour))
	p3 := testkit.CreatePost(t, db, b.ID, u.ID, "tie-b", base.Add(time.Hour))
	p4 := testkit.CreatePost(t, db, b.ID, u.ID, "newest", base.Add(2*time.Hour))

	repo := &PostRepository{DB: db}
	all, err := repo.ListFeed(ctx, FeedScope{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{p4.ID, p3.ID, p2.ID, p1.ID}, postIDs(all))

	page1, err := repo.ListFeed(ctx, FeedScope{}, 0, 2)
	require.NoError(t, err)
	page2, err := repo.ListFeed(ctx, FeedScope{}, 2, 2)
	require.NoError(t, err)
	page3, err := repo.ListFeed(ctx, FeedScope{}, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{p4.ID, p3.ID}, postIDs(page1))
	assert.Equal(t, []uint64{p2.ID, p1.ID}, postIDs(page2))
	assert.Empty(t, page3)
}

func TestPostRepository_ListFeedFiltersAndEnrichment(t *testing.T) {
	db := testkit.NewTestDB(t)
	ctx := context.Background()
	u := testkit.CreateUser(t, db, "password1")
	golang := testkit.CreateBuzz(t, db, "golang", u.ID)
	rust := testkit.CreateBuzz(t, db, "rust", u.ID)
	zig := testkit.CreateBuzz(t, db, "zig", u.ID)

	now := time.Now().UTC()
	g := testkit.CreatePost(t, db, golang.ID, u.ID, "go post", now)
	r := testkit.CreatePost(t, db, rust.ID, u.ID, "rust post", now.Add(time.Second))
	z := testkit.CreatePost(t, db, zig.ID, u.ID, "zig post", now.Add(2*time.Second))
	require.NoError(t, db.Create(&model.Vote{PostID: g.ID, UserID: u.ID, Type: model.VoteUp}).Error)
	require.NoError(t, db.Create(&model.Comment{PostID: g.ID, AuthorID: u.ID, Text: "nice"}).Error)

	repo := &PostRepository{DB: db}

	byName, err := repo.ListFeed(ctx, FeedScope{BuzzName: "golang"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	got := byName[0]
	assert.Equal(t, g.ID, got.ID)
	require.NotNil(t, got.Buzz)
	assert.Equal(t, "golang", got.Buzz.Name)
	require.NotNil(t, got.Author)
	assert.Equal(t, u.Username, got.Author.Username)
	require.Len(t, got.Votes, 1)
	assert.Equal(t, model.VoteUp, got.Votes[0].Type)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice", got.Comments[0].Text)

	bySet, err := repo.ListFeed(ctx, FeedScope{BuzzIDs: []uint64{rust.ID, zig.ID}, Filtered: true}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{z.ID, r.ID}, postIDs(bySet))

	unknown, err := repo.ListFeed(ctx, FeedScope{BuzzName: "nope"}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
