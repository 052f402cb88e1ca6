package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(sqlite.Open(dsn), false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func createUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Full " + username,
		Avatar:   "https://cdn.example.com/" + username + ".png",
		Password: "hash",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createVideo(t *testing.T, repo *VideoRepository, owner uuid.UUID, title string) *models.Video {
	t.Helper()

	video := &models.Video{
		OwnerID:     owner,
		VideoFile:   "https://cdn.example.com/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		Title:       title,
		Description: "description of " + title,
		Duration:    42,
		IsPublished: true,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create video %s: %v", title, err)
	}
	return video
}
