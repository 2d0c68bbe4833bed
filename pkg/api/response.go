package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "inventory-system/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64, page, limit int) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}

	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{
		List: list,
		Pagination: &PaginationMeta{
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		},
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}

// ErrorResponse maps domain errors onto HTTP codes: not-found 404, conflicts
// 409, lock timeouts 503, ledger integrity failures 500.
func ErrorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := err.Error()

	var httpErr *apperrors.HttpError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = httpErr.Message
	case apperrors.IsNotFound(err):
		code = http.StatusNotFound
	case apperrors.IsConflict(err):
		code = http.StatusConflict
	case errors.Is(err, apperrors.ErrLockTimeout):
		code = http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvariantViolation):
		code = http.StatusInternalServerError
		msg = "internal inconsistency detected"
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
