package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: message})
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}

// SendServiceError maps the service error taxonomy onto HTTP statuses.
// Store error details are logged and never returned to the client.
func SendServiceError(c echo.Context, logger *logrus.Logger, operation string, err error) error {
	var (
		validationErr *services.ValidationError
		productErr    *services.ProductNotFoundError
		notFoundErr   *services.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return SendClientError(c, validationErr.Message)
	case errors.As(err, &productErr):
		return SendClientError(c, productErr.Error())
	case errors.As(err, &notFoundErr):
		return SendNotFoundError(c, notFoundErr.Error())
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"operation":  operation,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}).Error("Request failed")
	return SendServerError(c, SecureErrorMessage(operation))
}

// SecureErrorMessage is the generic text returned for server-side failures.
func SecureErrorMessage(operation string) string {
	return fmt.Sprintf("failed to %s: operation could not be completed", operation)
}

// ParseID parses a positive integer path parameter.
func ParseID(raw, fieldName string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", fieldName)
	}
	return id, nil
}

// ParsePagination reads limit and offset query parameters, applying defaults
// and bounds.
func ParsePagination(c echo.Context) (int, int, error) {
	limit, offset := 20, 0

	if raw := c.QueryParam("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
		limit = l
	}
	if raw := c.QueryParam("offset"); raw != "" {
		o, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("offset must be an integer")
		}
		offset = o
	}

	return ValidatePaginationParams(limit, offset)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("offset cannot exceed 1,000,000")
	}
	return limit, offset, nil
}
