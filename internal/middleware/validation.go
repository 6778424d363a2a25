package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoshare/backend/internal/app/models/dto"
)

// HandleBindingError answers a request whose body failed to bind or validate
func HandleBindingError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Request body too large").
			WithDetails(maxErr.Limit)
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(detail))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// LimitBodySize caps the request body, leaving room for multipart framing
func LimitBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
