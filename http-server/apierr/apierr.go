package apierr

import (
	"errors"
	"log/slog"
	"net/http"

	"retifica/internal/service/orders"
	"retifica/internal/service/timer"
	"retifica/internal/service/transfer"
	"retifica/internal/storage"
)

// Status сопоставляет ошибку сервиса с HTTP-кодом и коротким сообщением.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, orders.ErrForbidden):
		return http.StatusForbidden, "employee is not allowed to act on this stage"
	case errors.Is(err, orders.ErrStageNotApplicable):
		return http.StatusConflict, "stage is not applicable to this order"
	case errors.Is(err, orders.ErrConflict), errors.Is(err, timer.ErrInvalidTransition):
		return http.StatusConflict, "operation conflicts with current state"
	case errors.Is(err, orders.ErrInvalid),
		errors.Is(err, timer.ErrInvalidKey),
		errors.Is(err, transfer.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid request"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Write пишет ответ с ошибкой; серверные ошибки логируются как error,
// остальные как warn.
func Write(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	code, msg := Status(err)

	l := log.With(slog.String("op", op), slog.String("error", err.Error()))
	if code == http.StatusInternalServerError {
		l.Error("request failed")
	} else {
		l.Warn("request rejected", slog.Int("status", code))
	}

	http.Error(w, msg, code)
}
