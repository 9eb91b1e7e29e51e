package handlers

import (
	"paymenthub/internal/controller/apperror"

	"github.com/gin-gonic/gin"
)

// errorResponse writes the taxonomy-mapped status with a single detail
// string. Internal diagnostics never reach the caller.
func errorResponse(c *gin.Context, err error) {
	c.JSON(apperror.HTTPStatus(err), gin.H{"detail": apperror.Detail(err)})
}
