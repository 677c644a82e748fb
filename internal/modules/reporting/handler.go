package reporting

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(client, professional, admin *gin.RouterGroup) {
	if client != nil {
		client.GET("/dashboard/client", h.ClientDashboard)
	}
	if professional != nil {
		professional.GET("/dashboard", h.ProfessionalDashboard)
		professional.GET("/earnings", h.Earnings)
	}
	if admin != nil {
		admin.GET("/dashboard", h.AdminDashboard)
		admin.GET("/reservations", h.Reservations)
		admin.GET("/clients/:id/tier", h.ClientTier)

		reports := admin.Group("/reports")
		reports.GET("/revenue", h.Revenue)
		reports.GET("/frequency", h.Frequency)
		reports.GET("/loyalty", h.Loyalty)
	}
}

// @Summary		Client dashboard
// @Tags		Reports
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/dashboard/client [GET]
func (h *Handler) ClientDashboard(c *gin.Context) {
	out, err := h.svc.ClientDashboard(c.Request.Context(), middleware.CurrentActor(c))
	respond(c, out, err)
}

// ClientTier reports the loyalty tier earned by one client.
// @Summary		Client loyalty tier
// @Tags		Reports
// @Security	BearerAuth
// @Param		id	path	int	true	"User ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/clients/:id/tier [GET]
func (h *Handler) ClientTier(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	tier, err := h.svc.ClientTier(c.Request.Context(), id)
	respond(c, gin.H{"user_id": id, "loyalty_tier": tier}, err)
}

// @Summary		Professional dashboard
// @Tags		Reports
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/dashboard [GET]
func (h *Handler) ProfessionalDashboard(c *gin.Context) {
	out, err := h.svc.ProfessionalDashboard(c.Request.Context(), middleware.CurrentActor(c))
	respond(c, out, err)
}

// @Summary		Professional earnings
// @Tags		Reports
// @Security	BearerAuth
// @Param		from	query	string	false	"YYYY-MM-DD"
// @Param		to	query	string	false	"YYYY-MM-DD"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/earnings [GET]
func (h *Handler) Earnings(c *gin.Context) {
	out, err := h.svc.Earnings(c.Request.Context(), middleware.CurrentActor(c), dateRange(c))
	respond(c, out, err)
}

// @Summary		Admin dashboard
// @Tags		Reports
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/dashboard [GET]
func (h *Handler) AdminDashboard(c *gin.Context) {
	out, err := h.svc.AdminDashboard(c.Request.Context())
	respond(c, out, err)
}

// @Summary		Revenue by category
// @Tags		Reports
// @Security	BearerAuth
// @Param		from	query	string	false	"YYYY-MM-DD"
// @Param		to	query	string	false	"YYYY-MM-DD"
// @Param		category_id	query	int	false	"Category ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reports/revenue [GET]
func (h *Handler) Revenue(c *gin.Context) {
	categoryID, ok := queryInt(c, "category_id")
	if !ok {
		return
	}
	out, err := h.svc.Revenue(c.Request.Context(), dateRange(c), categoryID)
	respond(c, out, err)
}

// @Summary		Service frequency
// @Tags		Reports
// @Security	BearerAuth
// @Param		from	query	string	false	"YYYY-MM-DD"
// @Param		to	query	string	false	"YYYY-MM-DD"
// @Param		category_id	query	int	false	"Category ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reports/frequency [GET]
func (h *Handler) Frequency(c *gin.Context) {
	categoryID, ok := queryInt(c, "category_id")
	if !ok {
		return
	}
	out, err := h.svc.Frequency(c.Request.Context(), dateRange(c), categoryID)
	respond(c, out, err)
}

// @Summary		Client loyalty overview
// @Tags		Reports
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reports/loyalty [GET]
func (h *Handler) Loyalty(c *gin.Context) {
	out, err := h.svc.Loyalty(c.Request.Context())
	respond(c, out, err)
}

// @Summary		Reservations in a date range
// @Tags		Reports
// @Security	BearerAuth
// @Param		from	query	string	false	"YYYY-MM-DD"
// @Param		to	query	string	false	"YYYY-MM-DD"
// @Param		professional_id	query	int	false	"Professional ID"
// @Param		status	query	string	false	"Reservation status"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reservations [GET]
func (h *Handler) Reservations(c *gin.Context) {
	professionalID, ok := queryInt(c, "professional_id")
	if !ok {
		return
	}
	out, err := h.svc.Reservations(c.Request.Context(), dateRange(c), professionalID, c.Query("status"))
	respond(c, out, err)
}

func dateRange(c *gin.Context) DateRange {
	return DateRange{From: c.Query("from"), To: c.Query("to")}
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func respond(c *gin.Context, data any, err error) {
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, data)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Internal(c, err)
	}
}
