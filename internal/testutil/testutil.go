// Package testutil regroupe les helpers partagés par les tests des handlers :
// base SQLite en mémoire branchée sur database.DB et requêtes HTTP simulées.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

// TestUserHeader porte l'identité de l'appelant dans les tests de handlers,
// à la place d'un vrai token.
const TestUserHeader = "X-Test-User"

// SetupDB ouvre une base SQLite en mémoire propre au test, migre les modèles
// donnés et l'assigne à database.DB le temps du test.
func SetupDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}

	originalDB := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = originalDB
		_ = sqlDB.Close()
	})
	return db
}

// IdentityFromHeader remplit "user_id" depuis TestUserHeader
func IdentityFromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(TestUserHeader); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	}
}

// NewRouter renvoie un moteur gin en mode test avec IdentityFromHeader
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdentityFromHeader())
	return r
}

// PerformRequest exécute une requête JSON en tant que userID (vide = anonyme)
func PerformRequest(r http.Handler, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	header := http.Header{}
	if userID != "" {
		header.Set(TestUserHeader, userID)
	}
	return PerformRequestWithHeader(r, method, path, body, header)
}

func PerformRequestWithHeader(r http.Handler, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DecodeJSON décode le corps de la réponse dans v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
