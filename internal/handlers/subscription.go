package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/response"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
)

type SubscriptionHandler struct {
	channelService *services.ChannelService
	logger         *logger.Logger
}

func NewSubscriptionHandler(channelService *services.ChannelService, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		channelService: channelService,
		logger:         logger,
	}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	state, err := h.channelService.ToggleSubscription(c.Request.Context(), middleware.GetUserID(c), c.Param("channelId"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	message := "Channel unsubscribed"
	if state == services.StateSubscribed {
		message = "Channel subscribed"
	}
	response.Ok(http.StatusOK, gin.H{"state": state}, message).Write(c)
}

func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.channelService.ListSubscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, subscribers, "Subscribers fetched successfully").Write(c)
}

func (h *SubscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	channels, err := h.channelService.ListSubscribedChannels(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, channels, "Subscribed channels fetched successfully").Write(c)
}
