package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fail writes the error body matching err and records err on the context
// for the access log.
func (h *handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		h.deps.Logger.ErrorContext(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, contract.ErrorResponse) {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, contract.ErrorResponse{Error: err.Error(), Code: contract.CodeNotFound}
	case errors.Is(err, repository.ErrDuplicateCode):
		return http.StatusConflict, contract.ErrorResponse{Error: err.Error(), Code: contract.CodeDuplicateCode}
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, contract.ErrorResponse{Error: err.Error(), Code: contract.CodeInvalidRequest}
	case errors.As(err, &verrs):
		return http.StatusBadRequest, contract.ErrorResponse{Error: describeValidation(verrs), Code: contract.CodeInvalidRequest}
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, contract.ErrorResponse{Error: "request body is required", Code: contract.CodeInvalidRequest}
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, contract.ErrorResponse{Error: err.Error(), Code: contract.CodeInvalidRequest}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, contract.ErrorResponse{Error: "malformed JSON body: " + err.Error(), Code: contract.CodeInvalidRequest}
	default:
		return http.StatusInternalServerError, contract.ErrorResponse{Error: "internal error", Code: contract.CodeInternal}
	}
}

var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func describeValidation(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "taskcode":
			parts = append(parts, fmt.Sprintf("%s %q is not a valid task code", fe.Field(), fe.Value()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must be a date in %s format", fe.Field(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s %s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
