package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// Response is the standard API response envelope.
type Response struct {
	Success bool                `json:"success" example:"true"`
	Message string              `json:"message,omitempty" example:"Operation successful"`
	Data    interface{}         `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// PaginatedResponse is the standard paginated API response envelope.
type PaginatedResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Data retrieved successfully"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Total   int64       `json:"total" example:"100"`
	Limit   int32       `json:"limit" example:"10"`
	Offset  int32       `json:"offset" example:"0"`
}

// NewSuccessResponse builds a success Response.
func NewSuccessResponse(data interface{}, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

// NewErrorResponse builds an error Response, surfacing batched field
// errors when err is a validation AppError.
func NewErrorResponse(err error) Response {
	resp := Response{Error: err.Error()}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		resp.Fields = appErr.Fields
	}
	return resp
}

// NewPaginatedResponse builds a PaginatedResponse.
func NewPaginatedResponse(data interface{}, total int64, limit, offset int32, message string) PaginatedResponse {
	return PaginatedResponse{Success: true, Message: message, Data: data, Total: total, Limit: limit, Offset: offset}
}

// SendSuccess sends a 200 success response.
func SendSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, NewSuccessResponse(data, message))
}

// SendCreated sends a 201 created response.
func SendCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data, message))
}

// SendError maps a domain error to its HTTP status and sends the error
// envelope. AppError.Code is authoritative when present; otherwise the
// sentinel class picks a sensible default.
func SendError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	var appErr *domain.AppError
	switch {
	case errors.As(err, &appErr):
		statusCode = appErr.Code
	case errors.Is(err, domain.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		statusCode = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		statusCode = http.StatusConflict
	case errors.Is(err, domain.ErrResourceExhausted):
		statusCode = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrIntegrity):
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, NewErrorResponse(err))
}

// SendPaginated sends a 200 paginated response.
func SendPaginated(c *gin.Context, data interface{}, total int64, limit, offset int32, message string) {
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, limit, offset, message))
}
