package handler

import (
	"errors"
	"net/http"

	"github.com/Kavin-Nithil/inventory-svc/internal/apierror"
	"github.com/Kavin-Nithil/inventory-svc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the engine's typed errors onto HTTP responses.
// Business-rule violations keep their precise message; infrastructure
// failures collapse to a generic body with the detail kept in the log.
func writeServiceError(c *gin.Context, err error) {
	var insufficient *service.InsufficientStockError
	var notActive *service.NotActiveError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, apierror.New(insufficient.Error()))
	case errors.As(err, &notActive):
		c.JSON(http.StatusConflict, apierror.New(notActive.Error()))
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrInvalidTimeout):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierror.New("store temporarily unavailable, retry later"))
	default:
		_ = c.Error(err) // picked up by the ErrorHandler middleware log
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
