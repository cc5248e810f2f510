package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := newTestIssuer()
	pair, err := iss.GeneratePair(&Session{UserID: 7, Email: "a@b.c", Username: "alice"})
	require.NoError(t, err)

	claims, err := iss.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Session().Username)
	assert.Equal(t, "a@b.c", claims.Session().Email)
}

func TestTokenIssuer_RefreshTokenIsNotAccess(t *testing.T) {
	iss := newTestIssuer()
	pair, err := iss.GeneratePair(&Session{UserID: 1})
	require.NoError(t, err)

	_, err = iss.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = iss.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestTokenIssuer_Expired(t *testing.T) {
	iss := newTestIssuer()
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	pair, err := iss.GeneratePair(&Session{UserID: 1})
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_ParseRefresh(t *testing.T) {
	iss := newTestIssuer()
	pair, err := iss.GeneratePair(&Session{UserID: 3, Username: "bob"})
	require.NoError(t, err)

	claims, err := iss.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), claims.UserID)
	assert.Equal(t, "bob", claims.Session().Username)

	// 同一时刻签发的令牌也互不相同
	again, err := iss.GeneratePair(&Session{UserID: 3, Username: "bob"})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, again.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, again.AccessToken)

	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := iss.GeneratePair(&Session{UserID: 3})
	require.NoError(t, err)
	iss.now = time.Now
	_, err = iss.ParseRefresh(old.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	pair, err := newTestIssuer().GeneratePair(&Session{UserID: 1})
	require.NoError(t, err)

	other := NewTokenIssuer("other", "other", time.Minute, time.Hour)
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
