package presenters

import (
	"errors"

	"calorie-tracker/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			res.Error = fields
		}
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps domain errors to HTTP status codes. Unknown errors get
// fallback.
func StatusFor(err error, fallback int) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrFoodNotFound),
		errors.Is(err, domain.ErrSharedFoodNotFound),
		errors.Is(err, domain.ErrCustomFoodNotFound),
		errors.Is(err, domain.ErrWeightNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrNoSourcesAvailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrUnknownProvenance),
		errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidCalorieGoal),
		errors.Is(err, domain.ErrInvalidImportFormat),
		errors.Is(err, domain.ErrInvalidExportFormat),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest
	}
	return fallback
}
