package admin

import (
	"errors"
	"net/http"
	"strconv"

	"servicebook/internal/middleware"
	"servicebook/internal/modules/reporting"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/users", h.GetUsers)
	admin.PATCH("/users/:id/active", h.SetActive)
	admin.PATCH("/professionals/:id/verify", h.VerifyProfessional)
	admin.GET("/audit-log", h.GetAuditLog)
}

// @Summary		Search users
// @Tags		Admin
// @Security	BearerAuth
// @Param		name	query	string	false	"Name substring"
// @Param		email	query	string	false	"Email substring"
// @Param		role	query	string	false	"client, professional or admin"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/users [GET]
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.service.SearchUsers(
		c.Request.Context(),
		middleware.CurrentActor(c),
		c.Query("name"),
		c.Query("email"),
		c.Query("role"),
	)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// @Summary		Activate or deactivate a user
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	int	true	"User ID"
// @Param		request	body	SetActiveRequest	true	"Active flag"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/users/:id/active [PATCH]
func (h *Handler) SetActive(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !response.BindJSON(c, &req) {
		return
	}

	u, err := h.service.SetActive(c.Request.Context(), middleware.CurrentActor(c), id, *req.Active)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// @Summary		Verify or unverify a professional
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	int	true	"Professional ID"
// @Param		request	body	SetVerifiedRequest	true	"Verified flag"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/professionals/:id/verify [PATCH]
func (h *Handler) VerifyProfessional(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req SetVerifiedRequest
	if !response.BindJSON(c, &req) {
		return
	}

	p, err := h.service.SetVerified(c.Request.Context(), middleware.CurrentActor(c), id, *req.Verified)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"professional": p})
}

// @Summary		Recent reservation deletions
// @Tags		Admin
// @Security	BearerAuth
// @Param		limit	query	int	false	"Entries to return (default 10, max 500)"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/audit-log [GET]
func (h *Handler) GetAuditLog(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 0)
	entries, err := h.service.AuditLog(c.Request.Context(), middleware.CurrentActor(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

func parseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reporting.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrSelfDeactivate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "You cannot deactivate your own account")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		response.Internal(c, err)
	}
}
