package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/service/orders"
	"retifica/internal/storage"
)

type OrderCreator interface {
	Create(ctx context.Context, o storage.ServiceOrder) (orders.OrderView, error)
}

type Request struct {
	Name     string                `json:"name"`
	ClientID string                `json:"client_id"`
	MotorID  string                `json:"motor_id"`
	Services []storage.ServiceType `json:"services"`
	Priority storage.Priority      `json:"priority"`
	Notes    string                `json:"notes"`
	OpenedAt *time.Time            `json:"opened_at"`
	DueAt    *time.Time            `json:"due_at"`
}

func CreateOrder(log *slog.Logger, creator OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CreateOrder"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op)).Warn("ошибка парсинга JSON", slog.String("error", err.Error()))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		o := storage.ServiceOrder{
			Name:     req.Name,
			ClientID: req.ClientID,
			MotorID:  req.MotorID,
			Priority: req.Priority,
			Notes:    req.Notes,
			DueAt:    req.DueAt,
		}
		if req.OpenedAt != nil {
			o.OpenedAt = *req.OpenedAt
		}
		for _, t := range req.Services {
			o.Services = append(o.Services, storage.Service{Type: t})
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := creator.Create(ctx, o)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		log.Info("order created", slog.String("op", op), slog.String("order_id", view.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, view)
	}
}
