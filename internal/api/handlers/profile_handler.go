package handlers

import (
	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/profile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProfileHandler interface {
		GetProfile(c *fiber.Ctx) error
		UpdateProfile(c *fiber.Ctx) error
	}

	profileHandler struct {
		profileService profile.ProfileService
		validator      *validator.Validate
	}
)

func NewProfileHandler(profileService profile.ProfileService, validator *validator.Validate) ProfileHandler {
	return &profileHandler{
		profileService: profileService,
		validator:      validator,
	}
}

func (h *profileHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.profileService.Get(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *profileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateProfileRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProfile, err)
	}

	res, err := h.profileService.Update(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedUpdateProfile, err)
	}

	status := fiber.StatusOK
	if res.State == domain.EntryPending {
		status = fiber.StatusAccepted
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessUpdateProfile)
}
