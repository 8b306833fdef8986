package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"retifica/http-server/apierr"
	"retifica/internal/storage"
)

type MotorSaver interface {
	SaveMotor(ctx context.Context, m storage.Motor) error
}

func SaveMotor(log *slog.Logger, saver MotorSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.motors.SaveMotor"

		var m storage.Motor
		if err := render.DecodeJSON(r.Body, &m); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if m.ClientID == "" {
			http.Error(w, "client_id is required", http.StatusBadRequest)
			return
		}

		status := http.StatusOK
		if m.ID == "" {
			m.ID = uuid.NewString()
			status = http.StatusCreated
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveMotor(ctx, m); err != nil {
			apierr.Write(w, log.With(slog.String("motor_id", m.ID)), op, err)
			return
		}

		render.Status(r, status)
		render.JSON(w, r, m)
	}
}
