package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/response"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
)

type UserHandler struct {
	userService    *services.UserService
	channelService *services.ChannelService
	issuer         *auth.Issuer
	secureCookies  bool
	logger         *logger.Logger
}

func NewUserHandler(userService *services.UserService, channelService *services.ChannelService, issuer *auth.Issuer, secureCookies bool, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		channelService: channelService,
		issuer:         issuer,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	avatar, avatarFile, err := formFile(c, "avatar")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(avatarFile)

	cover, coverFile, err := formFile(c, "coverImage")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(coverFile)

	user, err := h.userService.Register(c.Request.Context(), &services.RegisterInput{
		Username:   c.PostForm("username"),
		Email:      c.PostForm("email"),
		FullName:   c.PostForm("fullName"),
		Password:   c.PostForm("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	response.Ok(http.StatusCreated, user, "User registered successfully").Write(c)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, apperr.BadRequest("Invalid request body"))
		return
	}

	user, tokens, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, tokens)
	response.Ok(http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "User logged in successfully").Write(c)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		fail(c, h.logger, err)
		return
	}

	h.clearAuthCookies(c)
	response.Ok(http.StatusOK, nil, "User logged out").Write(c)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.ShouldBindJSON(&body)
		token = body.RefreshToken
	}

	tokens, err := h.userService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, tokens)
	response.Ok(http.StatusOK, tokens, "Access token refreshed").Write(c)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, apperr.BadRequest("Old and new password are required"))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword); err != nil {
		fail(c, h.logger, err)
		return
	}

	response.Ok(http.StatusOK, nil, "Password changed successfully").Write(c)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.userService.GetCurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, user, "Current user fetched successfully").Write(c)
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, apperr.BadRequest("Invalid request body"))
		return
	}

	user, err := h.userService.UpdateAccount(c.Request.Context(), middleware.GetUserID(c), req.FullName, req.Email)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, user, "Account details updated successfully").Write(c)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	file, src, err := formFile(c, "avatar")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(src)

	user, err := h.userService.UpdateAvatar(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, user, "Avatar image updated successfully").Write(c)
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	file, src, err := formFile(c, "coverImage")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(src)

	user, err := h.userService.UpdateCoverImage(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, user, "Cover image updated successfully").Write(c)
}

// GetChannelProfile serves anonymous and signed-in viewers alike.
func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	profile, err := h.channelService.GetChannelProfile(c.Request.Context(), c.Param("username"), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, profile, "User channel fetched successfully").Write(c)
}

func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	history, err := h.channelService.GetWatchHistory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, history, "Watch history fetched successfully").Write(c)
}

func (h *UserHandler) setAuthCookies(c *gin.Context, tokens *auth.TokenPair) {
	// Each cookie lives exactly as long as the token it carries.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, int(h.issuer.AccessTTL().Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, int(h.issuer.RefreshTTL().Seconds()), "/", "", h.secureCookies, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.secureCookies, true)
}
