package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"servicebook/internal/middleware"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, professional, admin *gin.RouterGroup) {
	if public != nil {
		public.GET("/catalog", h.View)
		public.GET("/categories", h.ListCategories)
		public.GET("/services", h.ListServices)
		public.GET("/offerings", h.BookableOfferings)
	}
	if professional != nil {
		professional.GET("/offerings", h.ListOfferings)
		professional.POST("/offerings", h.AddOffering)
		professional.DELETE("/offerings/:service_id", h.RemoveOffering)
	}
	if admin != nil {
		admin.POST("/categories", h.CreateCategory)
		admin.POST("/services", h.CreateService)
	}
}

// @Summary		Service catalog
// @Tags		Catalog
// @Param		category	query	string	false	"Category name"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/catalog [GET]
func (h *Handler) View(c *gin.Context) {
	rows, err := h.service.View(c.Request.Context(), c.Query("category"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// @Summary		Active categories
// @Tags		Catalog
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/categories [GET]
func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// @Summary		Active services
// @Tags		Catalog
// @Param		category_id	query	int	false	"Category ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/services [GET]
func (h *Handler) ListServices(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "Invalid category_id")
			return
		}
		categoryID = id
	}

	items, err := h.service.ListServices(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// @Summary		Bookable offerings
// @Tags		Catalog
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/offerings [GET]
func (h *Handler) BookableOfferings(c *gin.Context) {
	items, err := h.service.BookableOfferings(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// @Summary		Own offerings
// @Tags		Catalog
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/offerings [GET]
func (h *Handler) ListOfferings(c *gin.Context) {
	items, err := h.service.ListOfferings(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// @Summary		Offer a service
// @Tags		Catalog
// @Security	BearerAuth
// @Param		request	body	AddOfferingRequest	true	"Service and optional custom price"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/offerings [POST]
func (h *Handler) AddOffering(c *gin.Context) {
	var req AddOfferingRequest
	if !response.BindJSON(c, &req) {
		return
	}
	o, err := h.service.AddOffering(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

// @Summary		Stop offering a service
// @Tags		Catalog
// @Security	BearerAuth
// @Param		service_id	path	int	true	"Service ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/offerings/:service_id [DELETE]
func (h *Handler) RemoveOffering(c *gin.Context) {
	serviceID, ok := response.ParamID(c, "service_id")
	if !ok {
		return
	}
	if err := h.service.RemoveOffering(c.Request.Context(), middleware.CurrentActor(c), serviceID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service_id": serviceID, "removed": true})
}

// @Summary		Create a category
// @Tags		Catalog
// @Security	BearerAuth
// @Param		request	body	CreateCategoryRequest	true	"Category"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/categories [POST]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if !response.BindJSON(c, &req) {
		return
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

// @Summary		Create a service
// @Tags		Catalog
// @Security	BearerAuth
// @Param		request	body	CreateServiceRequest	true	"Service"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/services [POST]
func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !response.BindJSON(c, &req) {
		return
	}
	svc, err := h.service.CreateService(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrServiceInactive):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Service is not active")
	case errors.Is(err, ErrDuplicateOffering):
		response.Error(c, http.StatusConflict, "DUPLICATE_OFFERING", "You already offer this service")
	case errors.Is(err, ErrDuplicateCategory):
		response.Error(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Category already exists")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		response.Internal(c, err)
	}
}
