package handlers

import (
	"strconv"

	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/regional"
	"calorie-tracker/pkg/search"

	"github.com/gofiber/fiber/v2"
)

type (
	SearchHandler interface {
		SearchFoods(c *fiber.Ctx) error
		GetRegions(c *fiber.Ctx) error
		GetRegionalFoods(c *fiber.Ctx) error
	}

	searchHandler struct {
		searchService search.SearchService
	}
)

func NewSearchHandler(searchService search.SearchService) SearchHandler {
	return &searchHandler{
		searchService: searchService,
	}
}

// SearchFoods queries every source. A missing limit defaults to 50.
func (h *searchHandler) SearchFoods(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	filter, err := domain.ParseSourceFilter(c.Query("sources"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchFoods, err)
	}

	limit := domain.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchFoods, domain.ErrInvalidQuery)
		}
	}

	res, err := h.searchService.Search(c.Context(), userID, domain.SearchRequest{
		Query:   c.Query("q"),
		Sources: filter,
		Limit:   limit,
	})
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedSearchFoods, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchFoods)
}

func (h *searchHandler) GetRegions(c *fiber.Ctx) error {
	regions := make([]fiber.Map, 0)
	for _, r := range regional.Regions() {
		regions = append(regions, fiber.Map{
			"region":     r,
			"categories": regional.Categories(r),
			"count":      len(regional.Foods(r)),
		})
	}
	return presenters.SuccessResponse(c, regions, fiber.StatusOK, domain.MessageSuccessGetRegionalFoods)
}

func (h *searchHandler) GetRegionalFoods(c *fiber.Ctx) error {
	region := c.Params("region")
	category := c.Query("category")

	foods := regional.Foods(region)
	if foods == nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetRegionalFoods, domain.ErrFoodNotFound)
	}
	if category != "" {
		foods = regional.ByCategory(region, category)
		if foods == nil {
			foods = []domain.FoodRecord{}
		}
	}

	return presenters.SuccessResponse(c, foods, fiber.StatusOK, domain.MessageSuccessGetRegionalFoods)
}
