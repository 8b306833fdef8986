package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/storage"
)

type Workers interface {
	ListEmployees(ctx context.Context, onlyActive bool) ([]storage.Employee, error)
	GetEmployee(ctx context.Context, id string) (*storage.Employee, error)
}

// GetWorkers: сотрудники для выбора исполнителя; ?all=true включает неактивных.
func GetWorkers(log *slog.Logger, worker Workers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.GetWorkers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		onlyActive := r.URL.Query().Get("all") != "true"

		workers, err := worker.ListEmployees(ctx, onlyActive)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, workers)
	}
}

func GetWorker(log *slog.Logger, worker Workers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.GetWorker"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		emp, err := worker.GetEmployee(ctx, id)
		if err != nil {
			apierr.Write(w, log.With(slog.String("employee_id", id)), op, err)
			return
		}

		render.JSON(w, r, emp)
	}
}
