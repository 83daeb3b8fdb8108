package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
)

func setupMiddleware(t *testing.T) (tokenKey, accessToken string) {
	testutil.SetupDB(t, &auth.Token{})
	auth.Init("test-secret", time.Hour)
	t.Cleanup(func() { auth.Init("", 0) })

	var err error
	tokenKey, err = auth.GetOrCreateToken(context.Background(), "u1")
	require.NoError(t, err)
	accessToken, err = auth.IssueAccessToken("u1")
	require.NoError(t, err)
	return tokenKey, accessToken
}

func whoAmIRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func callWithAuth(r *gin.Engine, authorization string) (int, string) {
	header := http.Header{}
	if authorization != "" {
		header.Set("Authorization", authorization)
	}
	w := testutil.PerformRequestWithHeader(r, http.MethodGet, "/whoami", nil, header)
	if w.Code != http.StatusOK {
		return w.Code, ""
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body.UserID
}

func TestAuthMiddleware(t *testing.T) {
	key, access := setupMiddleware(t)
	r := whoAmIRouter(AuthMiddleware())

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"api token", "Token " + key, http.StatusOK, "u1"},
		{"jwt", "Bearer " + access, http.StatusOK, "u1"},
		{"lowercase scheme", "token " + key, http.StatusOK, "u1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"unknown token", "Token inconnu", http.StatusUnauthorized, ""},
		{"garbage jwt", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"unknown scheme", "Basic dTE6cGFzcw==", http.StatusUnauthorized, ""},
		{"scheme only", "Token", http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, userID := callWithAuth(r, tc.header)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantUser, userID)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	key, _ := setupMiddleware(t)
	r := whoAmIRouter(OptionalAuthMiddleware())

	status, userID := callWithAuth(r, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, userID)

	status, userID = callWithAuth(r, "Token "+key)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", userID)

	status, _ = callWithAuth(r, "Token inconnu")
	assert.Equal(t, http.StatusUnauthorized, status)
}
