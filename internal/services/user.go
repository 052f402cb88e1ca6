package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/storage"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

const (
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

type UserService struct {
	users    UserStore
	media    MediaStorage
	issuer   *auth.Issuer
	producer EventPublisher
	logger   *logger.Logger
}

func NewUserService(users UserStore, media MediaStorage, issuer *auth.Issuer, producer EventPublisher, logger *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		media:    media,
		issuer:   issuer,
		producer: producer,
		logger:   logger,
	}
}

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *storage.File
	CoverImage *storage.File
}

type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *UserService) Register(ctx context.Context, in *RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || email == "" || fullName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.BadRequest("All fields are required")
	}
	if in.Avatar == nil {
		return nil, apperr.BadRequest("Avatar file is required")
	}

	existing, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User with email or username already exists")
	}

	avatarURL, err := s.media.Upload(ctx, avatarFolder, *in.Avatar)
	if err != nil {
		return nil, apperr.Server("Failed to upload avatar", err)
	}
	var coverURL string
	if in.CoverImage != nil {
		coverURL, err = s.media.Upload(ctx, coverFolder, *in.CoverImage)
		if err != nil {
			return nil, apperr.Server("Failed to upload cover image", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with email or username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, queue.EventUserCreated, user)
	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login verifies the credentials and rotates the stored refresh token.
func (s *UserService) Login(ctx context.Context, in *LoginInput) (*models.User, *auth.TokenPair, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" && email == "" {
		return nil, nil, apperr.BadRequest("Username or email is required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, apperr.NotFound("User does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, nil, apperr.Unauthorized("Invalid user credentials")
	}

	tokens, err := s.rotateTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, tokens, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	user.RefreshToken = ""
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User logged out")
	return nil
}

// RefreshToken exchanges a refresh token for a new pair. Each refresh token
// can be used once.
func (s *UserService) RefreshToken(ctx context.Context, token string) (*auth.TokenPair, error) {
	if token == "" {
		return nil, apperr.Unauthorized("")
	}

	claims, err := s.issuer.ParseRefresh(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if user.RefreshToken != token {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return s.rotateTokens(ctx, user)
}

func (s *UserService) rotateTokens(ctx context.Context, user *models.User) (*auth.TokenPair, error) {
	tokens, err := s.issuer.IssuePair(user.ID.String(), user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	user.RefreshToken = tokens.RefreshToken
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokens, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.BadRequest("New password is required")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.BadRequest("Invalid old password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, userID)
}

func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, apperr.BadRequest("All fields are required")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Email is already in use")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.publish(ctx, queue.EventUserUpdated, user)
	s.logger.WithField("user_id", user.ID).Info("User updated successfully")
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *storage.File) (*models.User, error) {
	if file == nil {
		return nil, apperr.BadRequest("Avatar file is missing")
	}
	return s.replaceImage(ctx, userID, avatarFolder, *file, func(u *models.User) *string { return &u.Avatar })
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *storage.File) (*models.User, error) {
	if file == nil {
		return nil, apperr.BadRequest("Cover image file is missing")
	}
	return s.replaceImage(ctx, userID, coverFolder, *file, func(u *models.User) *string { return &u.CoverImage })
}

// replaceImage uploads file, points the selected field at it and removes the
// previous object once the user row is saved.
func (s *UserService) replaceImage(ctx context.Context, userID, folder string, file storage.File, field func(*models.User) *string) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, folder, file)
	if err != nil {
		return nil, apperr.Server("Failed to upload image", err)
	}

	target := field(user)
	previous := *target
	*target = url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if previous != "" {
		if err := s.media.Delete(ctx, previous); err != nil {
			s.logger.WithError(err).WithField("url", previous).Warn("Failed to delete previous image")
		}
	}

	s.publish(ctx, queue.EventUserUpdated, user)
	return user, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid user id")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User does not exist")
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, eventType queue.EventType, user *models.User) {
	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data: queue.UserEventData{
			UserID:   user.ID.String(),
			Username: user.Username,
			FullName: user.FullName,
		},
	}
	if err := s.producer.Publish(ctx, user.ID.String(), event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    user.ID,
			"event_type": eventType,
		}).Error("Failed to publish user event")
	}
}
