package domain

import "time"

var (
	MessageSuccessGetPendingSync = "pending changes retrieved successfully"
	MessageSyncAbandoned         = "a change could not be saved after several attempts and was discarded"
)

type (
	PendingTaskResponse struct {
		ID          string    `json:"id"`
		Kind        string    `json:"kind"`
		Attempts    int       `json:"attempts"`
		NextAttempt time.Time `json:"next_attempt"`
		LastError   string    `json:"last_error,omitempty"`
	}

	SyncStatusResponse struct {
		Online  bool                  `json:"online"`
		Pending []PendingTaskResponse `json:"pending"`
	}
)
