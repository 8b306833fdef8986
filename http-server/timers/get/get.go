package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/service/timer"
	"retifica/internal/storage"
)

type TimerReader interface {
	Get(ctx context.Context, key timer.Key) (timer.Snapshot, error)
}

// KeyFromQuery собирает ключ таймера из order_id, stage и service_type.
func KeyFromQuery(r *http.Request) (timer.Key, error) {
	q := r.URL.Query()
	key := timer.Key{
		OrderID:     q.Get("order_id"),
		Stage:       storage.Stage(q.Get("stage")),
		ServiceType: storage.ServiceType(q.Get("service_type")),
	}
	return key, key.Validate()
}

func GetTimer(log *slog.Logger, reader TimerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timers.GetTimer"

		key, err := KeyFromQuery(r)
		if err != nil {
			http.Error(w, "order_id and a valid stage are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := reader.Get(ctx, key)
		if err != nil {
			apierr.Write(w, log.With(slog.String("key", key.String())), op, err)
			return
		}

		render.JSON(w, r, snap)
	}
}
