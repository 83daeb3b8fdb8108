package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestFromRequest(t *testing.T) {
	Configure(10, 100)

	tests := []struct {
		name     string
		target   string
		expected Params
		wantErr  bool
	}{
		{name: "defaults", target: "/api/posts", expected: Params{Page: 1, PageSize: 10}},
		{name: "explicit page", target: "/api/posts?page=3", expected: Params{Page: 3, PageSize: 10}},
		{name: "custom size", target: "/api/posts?page_size=5", expected: Params{Page: 1, PageSize: 5}},
		{name: "size capped", target: "/api/posts?page_size=500", expected: Params{Page: 1, PageSize: 100}},
		{name: "invalid size ignored", target: "/api/posts?page_size=abc", expected: Params{Page: 1, PageSize: 10}},
		{name: "zero page", target: "/api/posts?page=0", wantErr: true},
		{name: "non numeric page", target: "/api/posts?page=last", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromRequest(newContext(tt.target))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestNewPage(t *testing.T) {
	Configure(10, 100)

	t.Run("first page with next", func(t *testing.T) {
		c := newContext("/api/posts?search=go")
		p, err := FromRequest(c)
		require.NoError(t, err)

		page, err := NewPage(c, p, 15, []int{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, int64(15), page.Count)
		require.NotNil(t, page.Next)
		assert.Equal(t, "http://example.com/api/posts?page=2&search=go", *page.Next)
		assert.Nil(t, page.Previous)
	})

	t.Run("last page with previous", func(t *testing.T) {
		c := newContext("/api/posts?page=2")
		p, err := FromRequest(c)
		require.NoError(t, err)

		page, err := NewPage(c, p, 15, []int{11, 12, 13, 14, 15})
		require.NoError(t, err)
		assert.Nil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, "http://example.com/api/posts", *page.Previous)
	})

	t.Run("empty first page", func(t *testing.T) {
		c := newContext("/api/posts")
		page, err := NewPage[int](c, Params{Page: 1, PageSize: 10}, 0, nil)
		require.NoError(t, err)
		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	})

	t.Run("page out of range", func(t *testing.T) {
		c := newContext("/api/posts?page=3")
		_, err := NewPage[int](c, Params{Page: 3, PageSize: 10}, 15, nil)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, PageSize: 10}.Offset())
}
