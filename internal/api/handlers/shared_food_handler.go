package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/sharedfood"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SharedFoodHandler interface {
		Contribute(c *fiber.Ctx) error
		GetSharedFoods(c *fiber.Ctx) error
		GetSharedFood(c *fiber.Ctx) error
		Like(c *fiber.Ctx) error
		Delete(c *fiber.Ctx) error
		UploadImage(c *fiber.Ctx) error

		Import(c *fiber.Ctx) error
		Export(c *fiber.Ctx) error
		Clear(c *fiber.Ctx) error
	}

	sharedFoodHandler struct {
		sharedFoodService sharedfood.SharedFoodService
		validator         *validator.Validate
	}

	clearRequest struct {
		Confirm bool   `json:"confirm"`
		Phrase  string `json:"phrase" validate:"required"`
	}
)

func NewSharedFoodHandler(sharedFoodService sharedfood.SharedFoodService, validator *validator.Validate) SharedFoodHandler {
	return &sharedFoodHandler{
		sharedFoodService: sharedFoodService,
		validator:         validator,
	}
}

func userName(c *fiber.Ctx) string {
	name, _ := c.Locals("name").(string)
	return name
}

func (h *sharedFoodHandler) Contribute(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ContributeFoodRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedContributeFood, err)
	}

	res, err := h.sharedFoodService.Contribute(c.Context(), *req, userID, userName(c))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedContributeFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessContributeFood)
}

func (h *sharedFoodHandler) GetSharedFoods(c *fiber.Ctx) error {
	sort := c.Query("sort", sharedfood.SortPopular)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	foods, count, err := h.sharedFoodService.List(c.Context(), sort, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetSharedFoods, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items":      foods,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetSharedFoods)
}

func (h *sharedFoodHandler) GetSharedFood(c *fiber.Ctx) error {
	food, err := h.sharedFoodService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetSharedFood, err)
	}

	return presenters.SuccessResponse(c, food, fiber.StatusOK, domain.MessageSuccessGetSharedFood)
}

func (h *sharedFoodHandler) Like(c *fiber.Ctx) error {
	if err := h.sharedFoodService.Like(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedLikeSharedFood, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLikeSharedFood)
}

func (h *sharedFoodHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.sharedFoodService.Delete(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedDeleteShared, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteShared)
}

func (h *sharedFoodHandler) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadSharedFoodImageRequest)

	req.FoodID = c.FormValue("food_id")
	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = image

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadFoodImage, err)
	}

	res, err := h.sharedFoodService.UploadImage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedUploadFoodImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadFoodImage)
}

// Import accepts a multipart "file" field holding a JSON or CSV export.
func (h *sharedFoodHandler) Import(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	format := c.FormValue("format", sharedfood.FormatFromPath(fh.Filename))

	file, err := fh.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImportFoods, err)
	}
	defer file.Close()

	res, err := h.sharedFoodService.Import(c.Context(), file, format, userID, userName(c))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedImportFoods, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessImportFoods)
}

func (h *sharedFoodHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", sharedfood.FormatJSON))

	var buf bytes.Buffer
	if _, err := h.sharedFoodService.Export(c.Context(), &buf, format); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedExportFoods, err)
	}

	contentType := fiber.MIMEApplicationJSONCharsetUTF8
	if format == sharedfood.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="shared-foods-%s.%s"`, time.Now().Format("20060102"), format))
	return c.Send(buf.Bytes())
}

func (h *sharedFoodHandler) Clear(c *fiber.Ctx) error {
	req := new(clearRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearFoods, err)
	}

	deleted, err := h.sharedFoodService.Clear(c.Context(), domain.ClearConfirmation{
		Confirmed: req.Confirm,
		Phrase:    req.Phrase,
	})
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedClearFoods, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"deleted": deleted}, fiber.StatusOK, domain.MessageSuccessClearFoods)
}
