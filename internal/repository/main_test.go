package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quill/internal/database"
	"quill/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("opening test database: %v", err)
	}

	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("migrating test database: %v", err)
	}

	os.Exit(m.Run())
}

var userSeq atomic.Int64

// createUser inserts a user with unique email and handle for test isolation.
func createUser(t *testing.T) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", n),
		Handle:   fmt.Sprintf("@user%d", n),
		Nickname: fmt.Sprintf("User %d", n),
	}
	if err := NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}
