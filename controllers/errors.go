package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/logger"
	"github.com/postboard/api-go/services"
)

// respondError maps service errors onto HTTP responses. Anything unexpected
// is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
	default:
		_ = c.Error(err)
		logger.From(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// respondBindError reports a request body or query that could not be bound.
func respondBindError(c *gin.Context, err error) {
	converted := services.FromValidatorErrors(err)
	var verr *services.ValidationError
	if errors.As(converted, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// postIDParam parses :id. A malformed id names no post, so it is a 404.
func postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, services.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}
