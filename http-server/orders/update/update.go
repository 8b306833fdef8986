package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/service/orders"
	"retifica/internal/storage"
)

type OrderWorkflow interface {
	StartStage(ctx context.Context, a orders.StageAction) (orders.OrderView, error)
	CompleteStage(ctx context.Context, a orders.StageAction) (orders.OrderView, error)
	CompleteService(ctx context.Context, a orders.StageAction) (orders.OrderView, error)
	Reopen(ctx context.Context, a orders.StageAction) (orders.OrderView, error)
	ToggleSubActivity(ctx context.Context, orderID string, serviceType storage.ServiceType, subID string, done bool) (orders.OrderView, error)
	SetStatus(ctx context.Context, id string, status storage.OrderStatus) (orders.OrderView, error)
}

type actionFunc func(ctx context.Context, a orders.StageAction) (orders.OrderView, error)

// stageAction: общий обработчик действий над этапом.
func stageAction(log *slog.Logger, op string, fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		var a orders.StageAction
		if err := render.DecodeJSON(r.Body, &a); err != nil {
			log.With(slog.String("op", op)).Warn("ошибка парсинга JSON", slog.String("error", err.Error()))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		a.OrderID = orderID

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := fn(ctx, a)
		if err != nil {
			apierr.Write(w, log.With(
				slog.String("order_id", orderID),
				slog.String("stage", string(a.Stage)),
				slog.String("employee_id", a.EmployeeID),
			), op, err)
			return
		}

		log.Info("order workflow updated",
			slog.String("op", op),
			slog.String("order_id", orderID),
			slog.String("stage", string(a.Stage)),
			slog.String("status", string(view.Status)),
			slog.Int("progress", view.Progress),
		)

		render.JSON(w, r, view)
	}
}

func StartStage(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return stageAction(log, "handlers.orders.StartStage", wf.StartStage)
}

func CompleteStage(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return stageAction(log, "handlers.orders.CompleteStage", wf.CompleteStage)
}

func CompleteService(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return stageAction(log, "handlers.orders.CompleteService", wf.CompleteService)
}

func ReopenStage(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return stageAction(log, "handlers.orders.ReopenStage", wf.Reopen)
}

func ToggleSubActivity(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.ToggleSubActivity"

		orderID := chi.URLParam(r, "id")

		var req struct {
			ServiceType   storage.ServiceType `json:"service_type"`
			SubActivityID string              `json:"sub_activity_id"`
			Completed     bool                `json:"completed"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if req.ServiceType == storage.ServiceNone || req.SubActivityID == "" {
			http.Error(w, "service_type and sub_activity_id are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := wf.ToggleSubActivity(ctx, orderID, req.ServiceType, req.SubActivityID, req.Completed)
		if err != nil {
			apierr.Write(w, log.With(slog.String("order_id", orderID)), op, err)
			return
		}

		render.JSON(w, r, view)
	}
}

func SetStatus(log *slog.Logger, wf OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.SetStatus"

		orderID := chi.URLParam(r, "id")

		var req struct {
			Status storage.OrderStatus `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := wf.SetStatus(ctx, orderID, req.Status)
		if err != nil {
			apierr.Write(w, log.With(slog.String("order_id", orderID)), op, err)
			return
		}

		log.Info("order status set", slog.String("op", op), slog.String("order_id", orderID), slog.String("status", string(view.Status)))
		render.JSON(w, r, view)
	}
}
