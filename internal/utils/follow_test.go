package utils

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = originalDB })
	return mock
}

func TestIsFollowing(t *testing.T) {
	mock := setupMockDB(t)

	tests := []struct {
		name           string
		followerID     string
		followingID    string
		mockRows       *sqlmock.Rows
		mockErr        error
		expectedResult bool
		expectedError  bool
	}{
		{
			name:           "User is following",
			followerID:     "user1",
			followingID:    "user2",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(1),
			expectedResult: true,
		},
		{
			name:           "User is not following",
			followerID:     "user1",
			followingID:    "user3",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(0),
			expectedResult: false,
		},
		{
			name:          "Database error",
			followerID:    "user1",
			followingID:   "user2",
			mockErr:       errors.New("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
				WithArgs(tt.followerID, tt.followingID)
			if tt.mockErr != nil {
				expect.WillReturnError(tt.mockErr)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			result, err := IsFollowing(tt.followerID, tt.followingID)

			assert.Equal(t, tt.expectedResult, result)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCountFollows(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE following_id = `).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	followers, err := CountFollowers("alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), followers)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE follower_id = `).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	following, err := CountFollowing("alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), following)

	assert.NoError(t, mock.ExpectationsWereMet())
}
