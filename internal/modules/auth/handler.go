package auth

import (
	"errors"
	"net/http"

	"servicebook/internal/middleware"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts register and login. loginGuard, when set, runs
// before login only.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup, loginGuard gin.HandlerFunc) {
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", h.Register)
	if loginGuard != nil {
		authGroup.POST("/login", loginGuard, h.Login)
	} else {
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// @Summary		Register a client or professional
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"Registration data"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !response.BindJSON(c, &req) {
		return
	}

	out, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, out)
}

// @Summary		Log in
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		429	{object}	map[string]interface{}	"Too many requests"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !response.BindJSON(c, &req) {
		return
	}

	out, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// @Summary		Current user
// @Tags		Auth
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/auth/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.CurrentActor(c).UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
