package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/service/orders"
	"retifica/internal/storage"
)

type OrderProvider interface {
	List(ctx context.Context, filter storage.OrderFilter) ([]orders.OrderView, error)
	Get(ctx context.Context, id string) (orders.OrderView, error)
}

// ParseFilter читает фильтр заказов из query: status (повторяемый),
// client_id, q, from, to (YYYY-MM-DD).
func ParseFilter(r *http.Request) (storage.OrderFilter, bool) {
	q := r.URL.Query()

	filter := storage.OrderFilter{
		ClientID: q.Get("client_id"),
		Search:   q.Get("q"),
	}
	for _, s := range q["status"] {
		st := storage.OrderStatus(s)
		if !st.Valid() {
			return storage.OrderFilter{}, false
		}
		filter.Status = append(filter.Status, st)
	}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return storage.OrderFilter{}, false
		}
		filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return storage.OrderFilter{}, false
		}
		// включительно по дату
		filter.To = t.Add(24*time.Hour - time.Nanosecond)
	}

	return filter, true
}

func GetOrders(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrders"

		filter, ok := ParseFilter(r)
		if !ok {
			log.With(slog.String("op", op)).Warn("invalid filter", slog.String("query", r.URL.RawQuery))
			http.Error(w, "invalid filter", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := provider.List(ctx, filter)
		if err != nil {
			apierr.Write(w, log.With(slog.String("request_id", middleware.GetReqID(r.Context()))), op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetOrder(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrder"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing order id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := provider.Get(ctx, id)
		if err != nil {
			apierr.Write(w, log.With(slog.String("order_id", id)), op, err)
			return
		}

		render.JSON(w, r, view)
	}
}
