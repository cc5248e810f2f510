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

func TestVoteRepository_Toggle(t *testing.T) {
	db := testkit.NewTestDB(t)
	ctx := context.Background()
	u := testkit.CreateUser(t, db, "password1")
	b := testkit.CreateBuzz(t, db, "golang", u.ID)
	p := testkit.CreatePost(t, db, b.ID, u.ID, "hello", time.Now())
	repo := &VoteRepository{DB: db}

	current, err := repo.Toggle(ctx, u.ID, p.ID, model.VoteUp)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, model.VoteUp, *current)

	current, err = repo.Toggle(ctx, u.ID, p.ID, model.VoteDown)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, model.VoteDown, *current)

	current, err = repo.Toggle(ctx, u.ID, p.ID, model.VoteDown)
	require.NoError(t, err)
	assert.Nil(t, current)

	var n int64
	require.NoError(t, db.Model(&model.Vote{}).Count(&n).Error)
	assert.Zero(t, n)
}
