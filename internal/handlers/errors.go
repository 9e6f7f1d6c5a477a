package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
)

// statusFor maps a domain error kind to its HTTP status
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindAlreadyConnected, apperror.KindDuplicateRequest, apperror.KindConstraintViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError converts a service error into an echo.HTTPError. Unexpected
// errors are hidden from the client and kept as the internal error for logging.
func respondError(err error) error {
	if errors.Is(err, identity.ErrInvalidCredential) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Kind)
		if status != http.StatusInternalServerError {
			return echo.NewHTTPError(status, appErr.Message).SetInternal(err)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// paramID parses a positive numeric path parameter
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// queryInt reads an integer query parameter, returning 0 when absent or malformed
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// bindAndValidate binds the request body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
