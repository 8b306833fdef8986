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

type MotorProvider interface {
	ListMotors(ctx context.Context, clientID string) ([]storage.Motor, error)
}

func GetMotors(log *slog.Logger, provider MotorProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.motors.GetMotors"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		motors, err := provider.ListMotors(ctx, r.URL.Query().Get("client_id"))
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, motors)
	}
}
