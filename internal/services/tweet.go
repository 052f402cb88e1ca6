package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

type TweetService struct {
	tweets   TweetStore
	users    UserStore
	producer EventPublisher
	logger   *logger.Logger
}

func NewTweetService(tweets TweetStore, users UserStore, producer EventPublisher, logger *logger.Logger) *TweetService {
	return &TweetService{
		tweets:   tweets,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

func (s *TweetService) Create(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid user id")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}

	tweet := &models.Tweet{OwnerID: owner, Content: content}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}

	event := queue.Event{
		Type:      queue.EventTweetCreated,
		Timestamp: time.Now(),
		Data: queue.TweetEventData{
			TweetID: tweet.ID.String(),
			OwnerID: ownerID,
		},
	}
	if err := s.producer.Publish(ctx, ownerID, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish tweet created event")
	}

	s.logger.WithField("tweet_id", tweet.ID).Info("Tweet created successfully")
	return tweet, nil
}

func (s *TweetService) ListByUser(ctx context.Context, userID string, page, limit int) ([]*models.Tweet, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid user id")
	}

	user, err := s.users.GetByID(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User does not exist")
	}

	_, limit, offset := normalizePage(page, limit)
	tweets, err := s.tweets.GetByOwnerID(ctx, owner, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	if tweets == nil {
		tweets = []*models.Tweet{}
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, tweetID, userID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}

	tweet, err := s.getOwnedTweet(ctx, tweetID, userID)
	if err != nil {
		return nil, err
	}

	tweet.Content = content
	if err := s.tweets.Update(ctx, tweet); err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, userID string) error {
	tweet, err := s.getOwnedTweet(ctx, tweetID, userID)
	if err != nil {
		return err
	}

	if err := s.tweets.Delete(ctx, tweet.ID); err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}

	s.logger.WithField("tweet_id", tweet.ID).Info("Tweet deleted successfully")
	return nil
}

func (s *TweetService) getOwnedTweet(ctx context.Context, tweetID, userID string) (*models.Tweet, error) {
	id, err := uuid.Parse(tweetID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid tweet id")
	}

	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	if tweet == nil {
		return nil, apperr.NotFound("Tweet not found")
	}
	if tweet.OwnerID.String() != userID {
		return nil, apperr.Forbidden("You are not the owner of this tweet")
	}
	return tweet, nil
}
