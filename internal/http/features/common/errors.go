package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tendant/simple-tenancy/internal/http/middleware"
	"github.com/tendant/simple-tenancy/internal/httputil"
	"github.com/tendant/simple-tenancy/pkg/domain"
)

// WriteError maps a domain error to its HTTP response.
// Anything unrecognised is logged and reported as a bare 500.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		httputil.FieldError(w, http.StatusUnprocessableEntity, ve.Field, ve.Message)
	case errors.Is(err, domain.ErrTenantReference):
		httputil.Error(w, http.StatusNotFound, domain.ErrTenantNotFound.Error())
	case errors.Is(err, domain.ErrTenantNotFound):
		httputil.Error(w, http.StatusNotFound, domain.ErrTenantNotFound.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		httputil.Error(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrTenantNameTaken):
		httputil.Error(w, http.StatusBadRequest, domain.ErrTenantNameTaken.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		httputil.Error(w, http.StatusBadRequest, domain.ErrEmailTaken.Error())
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
