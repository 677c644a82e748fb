package response

import (
	"net/http"
	"strconv"

	"servicebook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the body into dst and runs struct validation. On failure
// it writes a 400 envelope and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, "Invalid request body")
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return false
	}
	return true
}

// ParamID parses a positive int64 path parameter, writing a 400 envelope
// when it is missing or malformed.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
