package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"Buzz_Board/internal/config"
	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/testkit"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	db := testkit.NewTestDB(t)
	rdb, _ := testkit.NewTestRedis(t)
	r := InitRouter(Deps{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Log:     zaptest.NewLogger(t),
		Metrics: pkg.NewMetrics(),
	})
	return &api{t: t, engine: r}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *api) signupAndLogin(email, username string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": email, "username": username, "password": "password1"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"login": username, "password": "password1"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var pair pkg.Pair
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(a.t, pair.AccessToken)
	return pair.AccessToken
}

type feedPost struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Buzz  struct {
		Name string `json:"name"`
	} `json:"buzz"`
	Author struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"author"`
	Votes    []map[string]any `json:"votes"`
	Comments []map[string]any `json:"comments"`
}

func decodeFeed(t *testing.T, w *httptest.ResponseRecorder) []feedPost {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var posts []feedPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	return posts
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestSignup(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "ann@example.com", "username": "ann", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, "User created!", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, "ann", user["username"])
	assert.NotContains(t, user, "password")

	w = a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "ann@example.com", "username": "ann2", "password": "password1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "User exists already!", decodeMap(t, w)["message"])

	w = a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "bob.example.com", "username": "bob", "password": "password1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid input.", decodeMap(t, w)["message"])

	w = a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "bob@example.com", "username": "bob", "password": "123456"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodGet, "/api/auth/signup", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLoginLogout(t *testing.T) {
	a := newAPI(t)
	token := a.signupAndLogin("ann@example.com", "ann")

	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"login": "ann", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"login": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPost, "/api/buzz", token, gin.H{"name": "golang"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshAfterLogout(t *testing.T) {
	a := newAPI(t)
	a.signupAndLogin("ann@example.com", "ann")

	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"login": "ann", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair pkg.Pair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	w = a.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var next pkg.Pair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))

	w = a.do(http.MethodPost, "/api/auth/logout", next.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": next.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, "/api/buzz", next.AccessToken, gin.H{"name": "golang"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBuzzAndFeed(t *testing.T) {
	a := newAPI(t)
	u := a.signupAndLogin("ann@example.com", "ann")

	w := a.do(http.MethodPost, "/api/buzz", "", gin.H{"name": "golang"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": "ab"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": "golang"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", w.Body.String())

	w = a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": "golang"})
	assert.Equal(t, http.StatusConflict, w.Code)

	posts := decodeFeed(t, a.do(http.MethodGet, "/api/posts?buzzName=golang&limit=10&page=1", u, nil))
	assert.Empty(t, posts)

	w = a.do(http.MethodGet, "/api/posts?limit=abc&page=1", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodGet, "/api/posts?limit=10", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	long := decodeFeed(t, a.do(http.MethodGet, "/api/posts?buzzName="+strings.Repeat("x", 22)+"&limit=10&page=1", "", nil))
	assert.Empty(t, long)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	a := newAPI(t)
	u := a.signupAndLogin("ann@example.com", "ann")
	v := a.signupAndLogin("bob@example.com", "bob")

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": "golang"}).Code)
	buzzID := searchBuzzID(t, a, "golang")
	idStr := strconv.FormatUint(buzzID, 10)

	w := a.do(http.MethodPost, "/api/buzz/subscribe", v, gin.H{"buzzId": buzzID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, idStr, w.Body.String())

	w = a.do(http.MethodPost, "/api/buzz/subscribe", v, gin.H{"buzzId": buzzID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You've already subscribed to this buzz", decodeMap(t, w)["msg"])

	w = a.do(http.MethodPost, "/api/buzz/subscribe", u, gin.H{"buzzId": buzzID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "creator is subscribed on creation")

	w = a.do(http.MethodPost, "/api/buzz/subscribe", v, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodPost, "/api/buzz/subscribe", v, gin.H{"buzzId": buzzID + 99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/buzz/unsubscribe", v, gin.H{"buzzId": buzzID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, idStr, w.Body.String())

	w = a.do(http.MethodPost, "/api/buzz/unsubscribe", v, gin.H{"buzzId": buzzID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You've not been subscribed to this buzz, yet.", decodeMap(t, w)["msg"])
}

func TestPostsVotesCommentsAndImplicitFeed(t *testing.T) {
	a := newAPI(t)
	u := a.signupAndLogin("ann@example.com", "ann")
	v := a.signupAndLogin("bob@example.com", "bob")

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": "golang"}).Code)
	buzzID := searchBuzzID(t, a, "golang")

	w := a.do(http.MethodPost, "/api/buzz/post", v, gin.H{"buzzId": buzzID, "title": "hello", "content": "world"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/buzz/post", u, gin.H{"buzzId": buzzID, "title": "hello", "content": "world"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := uint64(decodeMap(t, w)["id"].(float64))

	w = a.do(http.MethodPatch, "/api/buzz/post/vote", v, gin.H{"postId": postID, "voteType": "UP"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", decodeMap(t, w)["voteType"])

	w = a.do(http.MethodPatch, "/api/buzz/post/vote", v, gin.H{"postId": postID, "voteType": "UP"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeMap(t, w)["voteType"])

	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, "/api/buzz/post/vote", u, gin.H{"postId": postID, "voteType": "DOWN"}).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPatch, "/api/buzz/post/vote", u, gin.H{"postId": postID + 5, "voteType": "UP"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodPatch, "/api/buzz/post/vote", u, gin.H{"postId": postID, "voteType": "MAYBE"}).Code)

	w = a.do(http.MethodPatch, "/api/buzz/post/comment", v, gin.H{"postId": postID, "text": "nice post"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 创建者自动订阅，所以出现在自己的默认列表中
	posts := decodeFeed(t, a.do(http.MethodGet, "/api/posts?limit=10&page=1", u, nil))
	require.Len(t, posts, 1)
	got := posts[0]
	assert.Equal(t, postID, got.ID)
	assert.Equal(t, "golang", got.Buzz.Name)
	assert.Equal(t, "ann", got.Author.Username)
	assert.Empty(t, got.Author.Password)
	assert.Len(t, got.Votes, 1)
	assert.Len(t, got.Comments, 1)

	assert.Empty(t, decodeFeed(t, a.do(http.MethodGet, "/api/posts?limit=10&page=1", v, nil)))
	assert.Len(t, decodeFeed(t, a.do(http.MethodGet, "/api/posts?limit=10&page=1", "", nil)), 1)
	assert.Len(t, decodeFeed(t, a.do(http.MethodGet, "/api/posts?buzzName=golang&limit=10&page=1", v, nil)), 1)
	assert.Empty(t, decodeFeed(t, a.do(http.MethodGet, "/api/posts?limit=10&page=2", "", nil)))
}

func TestSearch(t *testing.T) {
	a := newAPI(t)
	u := a.signupAndLogin("ann@example.com", "ann")
	for _, name := range []string{"golang", "gophers", "rust"} {
		require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/buzz", u, gin.H{"name": name}).Code)
	}

	w := a.do(http.MethodGet, "/api/search?q=GO", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []struct {
		Name  string `json:"name"`
		Count struct {
			Posts       int64 `json:"posts"`
			Subscribers int64 `json:"subscribers"`
		} `json:"_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "golang", got[0].Name)
	assert.Equal(t, "gophers", got[1].Name)
	assert.Equal(t, int64(1), got[0].Count.Subscribers)

	w = a.do(http.MethodGet, "/api/search?q=", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buzz_http_requests_total")
}

func searchBuzzID(t *testing.T, a *api, name string) uint64 {
	t.Helper()
	w := a.do(http.MethodGet, "/api/search?q="+name, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	for _, b := range got {
		if b.Name == name {
			return b.ID
		}
	}
	t.Fatalf("buzz %q not found", name)
	return 0
}
