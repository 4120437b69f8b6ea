package handlers

import (
	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/syncqueue"

	"github.com/gofiber/fiber/v2"
)

type (
	SyncHandler interface {
		GetPending(c *fiber.Ctx) error
	}

	syncHandler struct {
		queue *syncqueue.Queue
	}
)

func NewSyncHandler(queue *syncqueue.Queue) SyncHandler {
	return &syncHandler{
		queue: queue,
	}
}

func (h *syncHandler) GetPending(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	tasks := h.queue.Pending(userID)
	pending := make([]domain.PendingTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		pending = append(pending, domain.PendingTaskResponse{
			ID:          t.ID,
			Kind:        t.Kind,
			Attempts:    t.Attempts,
			NextAttempt: t.NextAttempt,
			LastError:   t.LastError,
		})
	}

	return presenters.SuccessResponse(c, domain.SyncStatusResponse{
		Online:  h.queue.Online(),
		Pending: pending,
	}, fiber.StatusOK, domain.MessageSuccessGetPendingSync)
}
