package handlers

import (
	"bufio"
	"strconv"
	"time"

	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/internal/logger"
	"calorie-tracker/pkg/diary"
	"calorie-tracker/pkg/realtime"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const streamKeepAlive = 15 * time.Second

type (
	DiaryHandler interface {
		AddEntry(c *fiber.Ctx) error
		GetDay(c *fiber.Ctx) error
		UpdateEntry(c *fiber.Ctx) error
		DeleteEntry(c *fiber.Ctx) error
		GetRecentFoods(c *fiber.Ctx) error
		Stream(c *fiber.Ctx) error
	}

	diaryHandler struct {
		diaryService diary.DiaryService
		hub          *realtime.Hub
		validator    *validator.Validate
	}
)

func NewDiaryHandler(diaryService diary.DiaryService, hub *realtime.Hub, validator *validator.Validate) DiaryHandler {
	return &diaryHandler{
		diaryService: diaryService,
		hub:          hub,
		validator:    validator,
	}
}

func (h *diaryHandler) AddEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddFoodEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodEntry, err)
	}

	res, err := h.diaryService.AddEntry(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedAddFoodEntry, err)
	}

	status := fiber.StatusCreated
	if res.State == domain.EntryPending {
		status = fiber.StatusAccepted
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessAddFoodEntry)
}

func (h *diaryHandler) GetDay(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	day, err := h.diaryService.GetDay(c.Context(), userID, c.Query("date"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetDiary, err)
	}

	return presenters.SuccessResponse(c, day, fiber.StatusOK, domain.MessageSuccessGetDiary)
}

func (h *diaryHandler) UpdateEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")
	req := new(domain.UpdateFoodEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFoodEntry, err)
	}

	res, err := h.diaryService.UpdateEntry(c.Context(), userID, entryID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedUpdateFoodEntry, err)
	}

	status := fiber.StatusOK
	if res.State == domain.EntryPending {
		status = fiber.StatusAccepted
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessUpdateFoodEntry)
}

func (h *diaryHandler) DeleteEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")

	state, err := h.diaryService.DeleteEntry(c.Context(), userID, entryID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedDeleteFoodEntry, err)
	}

	status := fiber.StatusOK
	if state == domain.EntryPending {
		status = fiber.StatusAccepted
	}
	return presenters.SuccessResponse(c, fiber.Map{"id": entryID, "state": state}, status, domain.MessageSuccessDeleteFoodEntry)
}

func (h *diaryHandler) GetRecentFoods(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	foods, err := h.diaryService.RecentFoods(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetRecentFoods, err)
	}

	return presenters.SuccessResponse(c, foods, fiber.StatusOK, domain.MessageSuccessGetRecentFoods)
}

// Stream sends the user's diary events as Server-Sent Events until the client
// goes away.
func (h *diaryHandler) Stream(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe(userID)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		logger.Debug("diary stream opened", zap.String("user_id", userID))

		if err := realtime.WriteSSE(w, realtime.Event{Type: realtime.EventConnected, At: time.Now()}); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if err := realtime.WriteSSE(w, ev); err != nil {
					logger.Warn("failed to encode diary event", zap.String("type", ev.Type), zap.Error(err))
					continue
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
			}
			if err := w.Flush(); err != nil {
				logger.Debug("diary stream closed", zap.String("user_id", userID))
				return
			}
		}
	})
	return nil
}
