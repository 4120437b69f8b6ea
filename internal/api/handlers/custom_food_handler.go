package handlers

import (
	"strconv"

	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/customfood"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CustomFoodHandler interface {
		CreateCustomFood(c *fiber.Ctx) error
		GetCustomFoods(c *fiber.Ctx) error
		GetCustomFood(c *fiber.Ctx) error
		UpdateCustomFood(c *fiber.Ctx) error
		DeleteCustomFood(c *fiber.Ctx) error
	}

	customFoodHandler struct {
		customFoodService customfood.CustomFoodService
		validator         *validator.Validate
	}
)

func NewCustomFoodHandler(customFoodService customfood.CustomFoodService, validator *validator.Validate) CustomFoodHandler {
	return &customFoodHandler{
		customFoodService: customFoodService,
		validator:         validator,
	}
}

func (h *customFoodHandler) CreateCustomFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CustomFoodRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCustomFood, err)
	}

	res, err := h.customFoodService.Create(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedCreateCustomFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCustomFood)
}

func (h *customFoodHandler) GetCustomFoods(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	foods, count, err := h.customFoodService.List(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetCustomFoods, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items":      foods,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetCustomFoods)
}

func (h *customFoodHandler) GetCustomFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	food, err := h.customFoodService.GetByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetCustomFoods, err)
	}

	return presenters.SuccessResponse(c, food, fiber.StatusOK, domain.MessageSuccessGetCustomFoods)
}

func (h *customFoodHandler) UpdateCustomFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CustomFoodRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCustomFood, err)
	}

	res, err := h.customFoodService.Update(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedUpdateCustomFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateCustomFood)
}

func (h *customFoodHandler) DeleteCustomFood(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.customFoodService.Delete(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedDeleteCustomFood, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCustomFood)
}
