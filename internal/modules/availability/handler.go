package availability

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

func (h *Handler) RegisterRoutes(professional *gin.RouterGroup) {
	professional.GET("/availability", h.List)
	professional.POST("/availability", h.Add)
	professional.DELETE("/availability/:id", h.Delete)
}

// @Summary		Add an availability window
// @Tags		Availability
// @Security	BearerAuth
// @Param		request	body	AddRequest	true	"Window"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/availability [POST]
func (h *Handler) Add(c *gin.Context) {
	var req AddRequest
	if !response.BindJSON(c, &req) {
		return
	}
	a, err := h.svc.Add(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// @Summary		List own availability windows
// @Tags		Availability
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/availability [GET]
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// @Summary		Delete an availability window
// @Tags		Availability
// @Security	BearerAuth
// @Param		id	path	int	true	"Window ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/availability/:id [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Professional profile required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Availability window not found")
	default:
		response.Internal(c, err)
	}
}
