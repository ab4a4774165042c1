package handler

import (
	"vivah/backend/internal/blob"
	"vivah/backend/internal/hub"
	"vivah/backend/internal/notify"
	"vivah/backend/internal/otp"
	"vivah/backend/internal/receipt"
	"vivah/backend/internal/service/chat"
	"vivah/backend/internal/service/interest"
	"vivah/backend/internal/service/match"
	"vivah/backend/internal/service/premium"
)

// Enqueuer hands notifications to the outbound queue.
type Enqueuer interface {
	Enqueue(n notify.Notification)
}

// Deps carries the collaborators the handlers need. Wired once in main.
type Deps struct {
	Match    *match.Service
	Interest *interest.Service
	Chat     *chat.Service
	Premium  *premium.Service
	Receipt  *receipt.Service
	OTP      *otp.Store
	Notify   Enqueuer
	Blob     blob.Store
	Hub      *hub.Hub
}

var deps Deps

// Init installs the handler dependencies. Must run before the router
// starts serving.
func Init(d Deps) {
	deps = d
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Code  string `json:"code,omitempty" example:"quota_exceeded"`
}

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, page, limit int) PaginatedResponse[T] {
	if limit <= 0 {
		limit = 1
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  (int(totalItems) + limit - 1) / limit,
			CurrentPage: page,
			PageSize:    limit,
		},
	}
}
