package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"retifica/http-server/apierr"
	"retifica/internal/storage"
)

type AdminCreateProvider interface {
	CreateEmployee(ctx context.Context, e storage.Employee) error
	SaveSubActivity(ctx context.Context, it storage.SubActivityTemplate) error
}

func SaveEmployeeAdmin(log *slog.Logger, admin AdminCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveEmployeeAdmin"

		var req struct {
			Name        string       `json:"name"`
			Role        storage.Role `json:"role"`
			Specialties []string     `json:"specialties"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Role == "" {
			req.Role = storage.RoleEmployee
		}
		if req.Name == "" || !req.Role.Valid() {
			http.Error(w, "name and a valid role are required", http.StatusBadRequest)
			return
		}

		emp := storage.Employee{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Role:        req.Role,
			Specialties: req.Specialties,
			Status:      storage.EmployeeAvailable,
			CreatedAt:   time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := admin.CreateEmployee(ctx, emp); err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		log.Info("employee created", slog.String("op", op), slog.String("employee_id", emp.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, emp)
	}
}

func SaveSubActivityAdmin(log *slog.Logger, admin AdminCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveSubActivityAdmin"

		var it storage.SubActivityTemplate
		if err := render.DecodeJSON(r.Body, &it); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if it.ServiceType == storage.ServiceNone || strings.TrimSpace(it.Name) == "" || it.EstimatedMinutes < 0 {
			http.Error(w, "service_type and name are required", http.StatusBadRequest)
			return
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := admin.SaveSubActivity(ctx, it); err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, it)
	}
}
