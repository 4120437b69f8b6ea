package presenters

import (
	"errors"
	"fmt"
	"testing"

	"calorie-tracker/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, fiber.StatusOK},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{fmt.Errorf("load: %w", domain.ErrEntryNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable), fiber.StatusServiceUnavailable},
		{domain.ErrNoSourcesAvailable, fiber.StatusServiceUnavailable},
		{domain.ErrInvalidQuantity, fiber.StatusBadRequest},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err, fiber.StatusInternalServerError), "%v", tc.err)
	}
}
