package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/middleware"
)

type Handlers struct {
	User         *UserHandler
	Subscription *SubscriptionHandler
	Video        *VideoHandler
	Tweet        *TweetHandler
	Health       *HealthHandler
}

// RegisterRoutes mounts every endpoint under api (normally /api/v1).
func RegisterRoutes(api *gin.RouterGroup, h *Handlers, issuer *auth.Issuer) {
	requireAuth := middleware.NewJWTAuth(&middleware.JWTConfig{Issuer: issuer})
	optionalAuth := middleware.NewJWTAuth(&middleware.JWTConfig{Issuer: issuer, Optional: true})

	api.GET("/healthcheck", h.Health.Healthcheck)

	users := api.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh-token", h.User.RefreshToken)
		users.GET("/c/:username", optionalAuth, h.User.GetChannelProfile)

		users.POST("/logout", requireAuth, h.User.Logout)
		users.POST("/change-password", requireAuth, h.User.ChangePassword)
		users.GET("/current-user", requireAuth, h.User.GetCurrentUser)
		users.PATCH("/update-account", requireAuth, h.User.UpdateAccount)
		users.PATCH("/avatar", requireAuth, h.User.UpdateAvatar)
		users.PATCH("/cover-image", requireAuth, h.User.UpdateCoverImage)
		users.GET("/history", requireAuth, h.User.GetWatchHistory)
	}

	subscriptions := api.Group("/subscriptions", requireAuth)
	{
		subscriptions.POST("/c/:channelId", h.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.Subscription.ListSubscribers)
		subscriptions.GET("/u/:subscriberId", h.Subscription.ListSubscribedChannels)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", optionalAuth, h.Video.List)
		videos.GET("/:videoId", optionalAuth, h.Video.GetByID)
		videos.POST("", requireAuth, h.Video.Publish)
		videos.PATCH("/:videoId", requireAuth, h.Video.Update)
		videos.DELETE("/:videoId", requireAuth, h.Video.Delete)
		videos.PATCH("/:videoId/publish", requireAuth, h.Video.TogglePublish)
	}

	tweets := api.Group("/tweets")
	{
		tweets.GET("/user/:userId", h.Tweet.ListByUser)
		tweets.POST("", requireAuth, h.Tweet.Create)
		tweets.PATCH("/:tweetId", requireAuth, h.Tweet.Update)
		tweets.DELETE("/:tweetId", requireAuth, h.Tweet.Delete)
	}
}
