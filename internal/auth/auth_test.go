package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

func setupAuth(t *testing.T) {
	db := testutil.SetupDB(t, &user.User{}, &Token{})
	require.NoError(t, db.Exec(`CREATE TABLE follows (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		follower_id TEXT NOT NULL,
		following_id TEXT NOT NULL
	)`).Error)

	Init("test-secret", time.Hour)
	t.Cleanup(func() { Init("", 0) })
}

func newAuthRouter() *gin.Engine {
	r := testutil.NewRouter()
	r.POST("/api/accounts/register", Signup)
	r.POST("/api/accounts/login", Login)
	r.GET("/api/accounts/token", GetToken)
	return r
}

type credentialsResponse struct {
	Message     string       `json:"message"`
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
	User        user.Profile `json:"user"`
}

func registerBody(username string) map[string]string {
	return map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "testpass123",
		"password_confirm": "testpass123",
	}
}

func TestSignup(t *testing.T) {
	setupAuth(t)
	r := newAuthRouter()

	w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/register", registerBody("alice"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp credentialsResponse
	testutil.DecodeJSON(t, w, &resp)
	assert.Len(t, resp.Token, 40)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	u, err := user.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, u.CheckPassword("testpass123"))

	userID, err := UserIDForToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	sub, err := ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)
}

func TestSignupValidation(t *testing.T) {
	setupAuth(t)
	r := newAuthRouter()
	require.Equal(t, http.StatusCreated,
		testutil.PerformRequest(r, http.MethodPost, "/api/accounts/register", registerBody("alice"), "").Code)

	cases := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"password mismatch", func() map[string]string {
			b := registerBody("bob")
			b["password_confirm"] = "autrechose"
			return b
		}(), "password_confirm"},
		{"duplicate username", func() map[string]string {
			b := registerBody("alice")
			b["email"] = "other@example.com"
			return b
		}(), "username"},
		{"duplicate email", func() map[string]string {
			b := registerBody("carol")
			b["email"] = "alice@example.com"
			return b
		}(), "email"},
		{"short password", func() map[string]string {
			b := registerBody("dave")
			b["password"] = "court"
			b["password_confirm"] = "court"
			return b
		}(), "password"},
		{"missing email", func() map[string]string {
			b := registerBody("erin")
			delete(b, "email")
			return b
		}(), "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/register", tc.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var body struct {
				Fields map[string]string `json:"fields"`
			}
			testutil.DecodeJSON(t, w, &body)
			assert.Contains(t, body.Fields, tc.field)
		})
	}
}

func TestLogin(t *testing.T) {
	setupAuth(t)
	r := newAuthRouter()

	w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/register", registerBody("alice"), "")
	require.Equal(t, http.StatusCreated, w.Code)
	var registered credentialsResponse
	testutil.DecodeJSON(t, w, &registered)

	t.Run("valid credentials", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/login",
			map[string]string{"username": "alice", "password": "testpass123"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp credentialsResponse
		testutil.DecodeJSON(t, w, &resp)
		assert.Equal(t, registered.Token, resp.Token, "login reuses the existing token")
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/login",
			map[string]string{"username": "alice", "password": "mauvais"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/login",
			map[string]string{"username": "ghost", "password": "testpass123"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := testutil.PerformRequest(r, http.MethodPost, "/api/accounts/login", "{", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetToken(t *testing.T) {
	setupAuth(t)

	w := testutil.PerformRequest(newAuthRouter(), http.MethodGet, "/api/accounts/token", nil, "u1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	testutil.DecodeJSON(t, w, &resp)

	again, err := GetOrCreateToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, resp.Token, again)
}

func TestUserIDForUnknownToken(t *testing.T) {
	setupAuth(t)
	_, err := UserIDForToken(context.Background(), "inconnu")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken(t *testing.T) {
	Init("test-secret", time.Hour)
	t.Cleanup(func() { Init("", 0) })

	t.Run("round trip", func(t *testing.T) {
		tok, err := IssueAccessToken("u1")
		require.NoError(t, err)
		sub, err := ParseAccessToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "u1", sub)
	})

	t.Run("expired", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		signed, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ParseAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := tok.SignedString([]byte("autre-secret"))
		require.NoError(t, err)
		_, err = ParseAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiration", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"})
		signed, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ParseAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
