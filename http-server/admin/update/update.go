package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/storage"
)

type AdminUpdateProvider interface {
	UpdateEmployees(ctx context.Context, emps []storage.Employee) error
	UpdateServiceConfigs(ctx context.Context, cfgs []storage.ServiceConfig) error
}

// UpdateEmployeesAdmin: массовое редактирование сотрудников одной транзакцией.
func UpdateEmployeesAdmin(log *slog.Logger, update AdminUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateEmployeesAdmin"

		var employees []storage.Employee
		if err := render.DecodeJSON(r.Body, &employees); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		for _, e := range employees {
			if e.ID == "" || !e.Role.Valid() || !e.Status.Valid() {
				http.Error(w, "each employee needs id, valid role and status", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := update.UpdateEmployees(ctx, employees); err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func UpdateServiceConfigAdmin(log *slog.Logger, update AdminUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateServiceConfigAdmin"

		var cfgs []storage.ServiceConfig
		if err := render.DecodeJSON(r.Body, &cfgs); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		for _, c := range cfgs {
			if c.ServiceType == storage.ServiceNone {
				http.Error(w, "service_type is required", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := update.UpdateServiceConfigs(ctx, cfgs); err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
