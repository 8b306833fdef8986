package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retifica/http-server/apierr"
)

type OrderDeleter interface {
	Delete(ctx context.Context, id string) error
}

func DeleteOrder(log *slog.Logger, deleter OrderDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.DeleteOrder"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.Delete(ctx, id); err != nil {
			apierr.Write(w, log.With(slog.String("order_id", id)), op, err)
			return
		}

		log.Info("order deleted", slog.String("op", op), slog.String("order_id", id))
		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
