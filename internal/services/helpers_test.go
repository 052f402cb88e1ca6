package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository/memory"
	"github.com/videotube/videotube/internal/storage"
	"github.com/videotube/videotube/pkg/logger"
)

type testEnv struct {
	store     *memory.Store
	cache     *memory.Cache
	publisher *memory.Publisher
	media     *memory.MediaStorage
	issuer    *auth.Issuer

	channels *ChannelService
	users    *UserService
	videos   *VideoService
	tweets   *TweetService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	env := &testEnv{
		store:     memory.NewStore(),
		cache:     memory.NewCache(),
		publisher: memory.NewPublisher(),
		media:     memory.NewMediaStorage(),
		issuer:    auth.NewIssuer("access-secret", time.Minute, "refresh-secret", time.Hour),
	}

	stats := NewStatsCache(env.cache, time.Minute, log)
	env.channels = NewChannelService(env.store.Users(), env.store.Subscriptions(), env.store.WatchHistory(), stats, env.publisher, log)
	env.users = NewUserService(env.store.Users(), env.media, env.issuer, env.publisher, log)
	env.videos = NewVideoService(env.store.Videos(), env.store.WatchHistory(), env.media, env.publisher, log)
	env.tweets = NewTweetService(env.store.Tweets(), env.store.Users(), env.publisher, log)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Full " + username,
		Avatar:   "memory://media/avatars/" + username + ".png",
		Password: "unused",
	}
	if err := e.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) seedVideo(t *testing.T, owner *models.User, title string) *models.Video {
	t.Helper()

	video := &models.Video{
		OwnerID:     owner.ID,
		VideoFile:   "memory://media/videos/" + title + ".mp4",
		Thumbnail:   "memory://media/thumbnails/" + title + ".jpg",
		Title:       title,
		Description: "a video called " + title,
		Duration:    60,
		IsPublished: true,
	}
	if err := e.store.Videos().Create(context.Background(), video); err != nil {
		t.Fatalf("seed video %s: %v", title, err)
	}
	return video
}

func testFile(name, content string) *storage.File {
	return &storage.File{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: "application/octet-stream",
		Body:        strings.NewReader(content),
	}
}
