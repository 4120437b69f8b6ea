package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DateLayout = "2006-01-02"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageStoreUnavailable     = "store is temporarily unavailable"

	ErrParseUUID        = errors.New("failed to parse UUID")
	ErrUserNotAllowed   = errors.New("user not allowed")
	ErrTokenNotFound    = errors.New("failed to token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("invalid date range")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
