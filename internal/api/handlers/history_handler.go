package handlers

import (
	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/history"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	HistoryHandler interface {
		AddWeight(c *fiber.Ctx) error
		GetWeights(c *fiber.Ctx) error
		DeleteWeight(c *fiber.Ctx) error
		GetNutrition(c *fiber.Ctx) error
	}

	historyHandler struct {
		historyService history.HistoryService
		validator      *validator.Validate
	}
)

func NewHistoryHandler(historyService history.HistoryService, validator *validator.Validate) HistoryHandler {
	return &historyHandler{
		historyService: historyService,
		validator:      validator,
	}
}

func (h *historyHandler) AddWeight(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddWeightRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddWeight, err)
	}

	res, err := h.historyService.AddWeight(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedAddWeight, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddWeight)
}

func (h *historyHandler) GetWeights(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.historyService.ListWeights(c.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetWeightHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetWeightHistory)
}

func (h *historyHandler) DeleteWeight(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.historyService.DeleteWeight(c.Context(), userID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedDeleteWeight, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteWeight)
}

func (h *historyHandler) GetNutrition(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.historyService.Nutrition(c.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetNutritionHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNutritionHistory)
}
