package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/storage"
)

type AdminProvider interface {
	ListEmployees(ctx context.Context, onlyActive bool) ([]storage.Employee, error)
	ListSubActivities(ctx context.Context, serviceType storage.ServiceType) ([]storage.SubActivityTemplate, error)
	ListServiceConfigs(ctx context.Context) ([]storage.ServiceConfig, error)
}

func GetAllEmployeesAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetAllEmployeesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		emps, err := admin.ListEmployees(ctx, false)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, emps)
	}
}

// GetSubActivities: справочник подзадач, ?service_type= сужает выборку.
func GetSubActivities(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetSubActivities"

		serviceType := storage.ServiceType(r.URL.Query().Get("service_type"))
		if serviceType != storage.ServiceNone && !serviceType.Valid() {
			http.Error(w, "unknown service_type", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := admin.ListSubActivities(ctx, serviceType)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, items)
	}
}

func GetServiceConfig(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetServiceConfig"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cfgs, err := admin.ListServiceConfigs(ctx)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, cfgs)
	}
}
