package review

import (
	"errors"
	"net/http"

	"servicebook/internal/middleware"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(client, professional *gin.RouterGroup) {
	if client != nil {
		client.POST("/reviews", h.Create)
	}
	if professional != nil {
		professional.GET("/reviews", h.ListForProfessional)
	}
}

// @Summary		Review a completed reservation
// @Tags		Reviews
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"Reservation, rating and comment"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if !response.BindJSON(c, &req) {
		return
	}

	rv, err := h.svc.Submit(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			response.BadRequest(c, "Rating must be between 1 and 5")
		case errors.Is(err, ErrNotEligible):
			response.Error(c, http.StatusForbidden, "NOT_ELIGIBLE", "You can review only completed reservations")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your reservation")
		case errors.Is(err, ErrAlreadyReviewed):
			response.Error(c, http.StatusConflict, "ALREADY_REVIEWED", "Only one review per reservation")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		default:
			response.Internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, rv)
}

// @Summary		Reviews of the professional
// @Tags		Reviews
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/reviews [GET]
func (h *Handler) ListForProfessional(c *gin.Context) {
	items, err := h.svc.ListForProfessional(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Professional profile required")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
