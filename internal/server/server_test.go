package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

func setupServer(t *testing.T) *gin.Engine {
	db := testutil.SetupDB(t)
	require.NoError(t, Migrate(db))

	auth.Init("test-secret", time.Hour)
	t.Cleanup(func() { auth.Init("", 0) })

	gin.SetMode(gin.TestMode)
	return New()
}

type session struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
	User        user.Profile `json:"user"`
}

func (s session) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Token "+s.Token)
	return h
}

func (s session) bearer() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+s.AccessToken)
	return h
}

func register(t *testing.T, r *gin.Engine, username string) session {
	w := testutil.PerformRequestWithHeader(r, http.MethodPost, "/api/accounts/register", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "testpass123",
		"password_confirm": "testpass123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s session
	testutil.DecodeJSON(t, w, &s)
	return s
}

func TestHealth(t *testing.T) {
	r := setupServer(t)
	w := testutil.PerformRequestWithHeader(r, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAliceAndBob(t *testing.T) {
	r := setupServer(t)

	register(t, r, "alice")
	w := testutil.PerformRequestWithHeader(r, http.MethodPost, "/api/accounts/login",
		map[string]string{"username": "alice", "password": "testpass123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alice session
	testutil.DecodeJSON(t, w, &alice)

	w = testutil.PerformRequestWithHeader(r, http.MethodPost, "/api/posts",
		map[string]string{"title": "Hello", "content": "World"}, alice.header())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created post.PostResponse
	testutil.DecodeJSON(t, w, &created)

	bob := register(t, r, "bob")
	w = testutil.PerformRequestWithHeader(r, http.MethodPost, "/api/accounts/follow/alice", nil, bob.header())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/posts/feed", nil, bob.bearer())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var feed pagination.Page[post.PostResponse]
	testutil.DecodeJSON(t, w, &feed)
	require.Len(t, feed.Results, 1)
	assert.Equal(t, created.ID, feed.Results[0].ID)
	assert.Equal(t, "Hello", feed.Results[0].Title)
	assert.Equal(t, "alice", feed.Results[0].Author.Username)

	w = testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/accounts/users/alice", nil, bob.header())
	require.Equal(t, http.StatusOK, w.Code)
	var profile user.Profile
	testutil.DecodeJSON(t, w, &profile)
	assert.Equal(t, int64(1), profile.FollowersCount)
	require.NotNil(t, profile.IsFollowing)
	assert.True(t, *profile.IsFollowing)

	w = testutil.PerformRequestWithHeader(r, http.MethodDelete, "/api/posts/"+created.ID, nil, bob.header())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticationRequired(t *testing.T) {
	r := setupServer(t)

	w := testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/posts/feed", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.PerformRequestWithHeader(r, http.MethodPost, "/api/books", map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bad := http.Header{}
	bad.Set("Authorization", "Token inconnu")
	w = testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/posts", nil, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/posts", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrailingSlashRedirect(t *testing.T) {
	r := setupServer(t)
	w := testutil.PerformRequestWithHeader(r, http.MethodGet, "/api/posts/", nil, nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/posts", w.Header().Get("Location"))
}
