// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/services"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/transport/httpdto"
)

const authCookieName = "auth_token"

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service      *services.AuthService
	cookieSecure bool
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cookieSecure: cookieSecure}
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Role:           req.Role,
		Specialization: req.Specialization,
		Phone:          req.Phone,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookie(c, res.Token)
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toAuthResponse(res)))
}

// Login handles user authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookie(c, res.Token)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toAuthResponse(res)))
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	current, ok := services.CurrentUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	info, err := h.service.GetUserByID(c.Request.Context(), current.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toUserDTO(info)))
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	maxAge := int(h.service.TokenTTL().Seconds())
	c.SetCookie(authCookieName, token, maxAge, "/", "", h.cookieSecure, true)
}

func toAuthResponse(res services.AuthResult) httpdto.AuthResponse {
	return httpdto.AuthResponse{
		User:  toUserDTO(res.User),
		Token: res.Token,
	}
}

func toUserDTO(info services.UserInfo) httpdto.UserDTO {
	return httpdto.UserDTO{
		ID:             info.ID,
		Email:          info.Email,
		Name:           info.Name,
		Role:           info.Role,
		Specialization: info.Specialization,
	}
}
