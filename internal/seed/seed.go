// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"quill/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumFollows  int
	ShouldClean bool
}

// Seed populates the database with demo users, posts and follow edges.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return err
		}
	}

	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	if opts.NumFollows <= 0 {
		opts.NumFollows = opts.NumUsers * 3
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d users", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d posts", len(posts))

	follows, err := createFollows(db, users, opts.NumFollows)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d follow edges", follows)

	return nil
}

func clearData(db *gorm.DB) error {
	for _, table := range []string{"follows", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func generateHandle(first, last string, n int) string {
	handle := fmt.Sprintf("@%s_%s%d", strings.ToLower(first), strings.ToLower(last), n)
	// Keep within the allowed charset; names occasionally carry punctuation.
	var b strings.Builder
	for _, r := range handle {
		switch {
		case r == '@' || r == '_',
			r >= 'a' && r <= 'z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)

	// All demo accounts share one password so the hash is computed once.
	credential, err := models.NewCredential("Passw0rd!demo")
	if err != nil {
		return nil, err
	}

	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := models.User{
			Email:       strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			DisplayName: first + " " + last,
			Handle:      generateHandle(first, last, i),
			Nickname:    first,
			Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Password:    credential,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post := models.Post{
			Title:    gofakeit.Sentence(5),
			Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
			UserID:   author.ID,
			Handle:   author.Handle,
			Nickname: author.Nickname,
			// Spread creation times over the past 90 days.
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createFollows(db *gorm.DB, users []models.User, count int) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	seen := make(map[[2]string]bool)

	for attempts := 0; created < count && attempts < count*4; attempts++ {
		follower := users[r.Intn(len(users))]
		followee := users[r.Intn(len(users))]
		if follower.ID == followee.ID {
			continue
		}
		pair := [2]string{follower.ID, followee.ID}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		edge := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
		if err := db.Create(&edge).Error; err != nil {
			return created, fmt.Errorf("seeding follow edge: %w", err)
		}
		created++
	}
	return created, nil
}
