package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/shopping-list/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseID reads an integer path parameter
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, service.Validation("Invalid ID supplied", err)
	}
	return id, nil
}

// decodeBody decodes a JSON request body into dst and validates it
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return service.Validation("Invalid request body", errors.New("empty body"))
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.Validation("Invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return service.Validation(validationMessage(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// statusFor maps a service error kind to its HTTP status
func statusFor(e *service.Error) int {
	switch e.Kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUpstream:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError converts err into a {"error": message} response
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.Unexpected(err)
	}

	status := statusFor(svcErr)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "kind", svcErr.Kind.String(), "error", err)
	} else {
		logger.Info("request rejected", "path", r.URL.Path, "kind", svcErr.Kind.String(), "error", err)
	}

	WriteError(w, status, svcErr.Message, logger)
}
