package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quill/internal/database"
	"quill/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 10, NumFollows: 8}))

	var users, posts, follows int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Follow{}).Count(&follows)

	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 10, posts)
	assert.Positive(t, follows)
}

func TestSeededUsersAreWellFormed(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 5}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.True(t, u.ProfileComplete(), "handle %q nickname %q", u.Handle, u.Nickname)
		assert.True(t, u.Password.IsSet())
		assert.Regexp(t, `^@[a-z0-9_]+$`, u.Handle)
	}
}

func TestSeededPostsSnapshotAuthors(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 6}))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.NotEmpty(t, p.Handle)
		assert.NotEmpty(t, p.Excerpt)
	}
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 3}))
	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 2, ShouldClean: true}))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 2, users)
}
