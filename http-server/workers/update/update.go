package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/events"
	"retifica/internal/storage"
)

type StatusUpdater interface {
	UpdateEmployeeActivity(ctx context.Context, id string, status storage.EmployeeStatus, activity *storage.Activity) error
}

// UpdateWorkerStatus: ручная смена статуса: disponivel или inativo.
// ocupado выставляется только при старте этапа.
func UpdateWorkerStatus(log *slog.Logger, updater StatusUpdater, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.UpdateWorkerStatus"

		id := chi.URLParam(r, "id")

		var req struct {
			Status storage.EmployeeStatus `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if req.Status != storage.EmployeeAvailable && req.Status != storage.EmployeeInactive {
			http.Error(w, "status must be disponivel or inativo", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateEmployeeActivity(ctx, id, req.Status, nil); err != nil {
			apierr.Write(w, log.With(slog.String("employee_id", id)), op, err)
			return
		}

		if err := pub.Publish(ctx, events.Event{Type: events.TypeEmployeeUpdated, EmployeeID: id}); err != nil {
			log.Warn("failed to publish event", slog.String("op", op), slog.String("error", err.Error()))
		}

		log.Info("employee status updated", slog.String("op", op), slog.String("employee_id", id), slog.String("status", string(req.Status)))
		render.JSON(w, r, map[string]string{"status": string(req.Status)})
	}
}
