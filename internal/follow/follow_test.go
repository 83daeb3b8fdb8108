package follow

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/pagination"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

func setupFollows(t *testing.T, usernames ...string) {
	testutil.SetupDB(t, &user.User{}, &Follow{})
	for _, name := range usernames {
		require.NoError(t, user.Create(context.Background(), &user.User{
			ID:           "id-" + name,
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "x",
		}))
	}
}

func newFollowRouter() *gin.Engine {
	r := testutil.NewRouter()
	r.POST("/api/accounts/follow/:username", ToggleFollow)
	r.POST("/api/accounts/unfollow/:username", UnfollowUser)
	r.GET("/api/accounts/following", GetFollowing)
	r.GET("/api/accounts/following/:username", GetFollowing)
	r.GET("/api/accounts/followers", GetFollowers)
	r.GET("/api/accounts/followers/:username", GetFollowers)
	return r
}

func TestToggleSelfFollow(t *testing.T) {
	setupFollows(t, "alice")

	_, err := Toggle(context.Background(), "id-alice", "id-alice")
	assert.ErrorIs(t, err, ErrSelfFollow)

	w := testutil.PerformRequest(newFollowRouter(), http.MethodPost, "/api/accounts/follow/alice", nil, "id-alice")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ids, err := FollowingIDs(context.Background(), "id-alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestToggleRoundTrip(t *testing.T) {
	setupFollows(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := Toggle(ctx, "id-alice", "id-carol")
	require.NoError(t, err)
	before, err := FollowingIDs(ctx, "id-alice")
	require.NoError(t, err)

	followed, err := Toggle(ctx, "id-alice", "id-bob")
	require.NoError(t, err)
	assert.True(t, followed)

	isFollowing, err := utils.IsFollowing("id-alice", "id-bob")
	require.NoError(t, err)
	assert.True(t, isFollowing)

	followed, err = Toggle(ctx, "id-alice", "id-bob")
	require.NoError(t, err)
	assert.False(t, followed)

	after, err := FollowingIDs(ctx, "id-alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestUnfollow(t *testing.T) {
	setupFollows(t, "alice", "bob")
	r := newFollowRouter()

	w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/unfollow/bob", nil, "id-alice")
	assert.Equal(t, http.StatusBadRequest, w.Code, "unfollow without an edge")

	w = testutil.PerformRequest(r, http.MethodPost, "/api/accounts/follow/bob", nil, "id-alice")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Following bool `json:"following"`
	}
	testutil.DecodeJSON(t, w, &body)
	assert.True(t, body.Following)

	w = testutil.PerformRequest(r, http.MethodPost, "/api/accounts/unfollow/bob", nil, "id-alice")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.ErrorIs(t, Unfollow(context.Background(), "id-alice", "id-bob"), ErrNotFollowing)
}

func TestFollowUnknownUser(t *testing.T) {
	setupFollows(t, "alice")
	w := testutil.PerformRequest(newFollowRouter(), http.MethodPost, "/api/accounts/follow/nobody", nil, "id-alice")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFollows(t *testing.T) {
	setupFollows(t, "alice", "bob", "carol")
	ctx := context.Background()
	for _, pair := range [][2]string{{"alice", "bob"}, {"alice", "carol"}, {"carol", "bob"}} {
		_, err := Toggle(ctx, "id-"+pair[0], "id-"+pair[1])
		require.NoError(t, err)
	}
	r := newFollowRouter()

	t.Run("caller following", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodGet, "/api/accounts/following", nil, "id-alice")
		require.Equal(t, http.StatusOK, w.Code)

		var page pagination.Page[user.Summary]
		testutil.DecodeJSON(t, w, &page)
		assert.Equal(t, int64(2), page.Count)
		names := []string{}
		for _, s := range page.Results {
			names = append(names, s.Username)
		}
		assert.ElementsMatch(t, []string{"bob", "carol"}, names)
	})

	t.Run("followers by username", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodGet, "/api/accounts/followers/bob", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var page pagination.Page[user.Summary]
		testutil.DecodeJSON(t, w, &page)
		assert.Equal(t, int64(2), page.Count)
		for _, s := range page.Results {
			assert.NotEqual(t, "bob", s.Username)
			assert.Contains(t, []string{"id-alice", "id-carol"}, s.ID)
		}
	})

	t.Run("paginated", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodGet, "/api/accounts/following?page_size=1", nil, "id-alice")
		require.Equal(t, http.StatusOK, w.Code)

		var page pagination.Page[user.Summary]
		testutil.DecodeJSON(t, w, &page)
		assert.Len(t, page.Results, 1)
		require.NotNil(t, page.Next)
		assert.Contains(t, *page.Next, "page=2")
	})

	t.Run("page out of range", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodGet, "/api/accounts/following?page=5", nil, "id-alice")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
