package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotFound handles unmatched routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "Not Found",
		Message: "The requested resource was not found",
	})
}

// MethodNotAllowed handles known routes requested with the wrong method
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "Method Not Allowed",
		Message: "The method is not allowed for the requested URL",
	})
}

// BadRequest answers requests whose body or parameters cannot be understood
func BadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Bad Request",
		Message: "The request could not be understood by the server",
	})
}

// RequestTooLarge answers bodies above the size limit
func RequestTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:   "Request Entity Too Large",
		Message: "The request body exceeds the allowed size",
	})
}

// InternalServerError answers unhandled faults
func InternalServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Server Error",
		Message: genericErrorMessage,
	})
}
