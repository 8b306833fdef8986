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

type ClientSaver interface {
	SaveClient(ctx context.Context, c storage.Client) error
}

// SaveClient создаёт клиента или обновляет существующего, если передан id.
func SaveClient(log *slog.Logger, saver ClientSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.SaveClient"

		var c storage.Client
		if err := render.DecodeJSON(r.Body, &c); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		status := http.StatusOK
		if c.ID == "" {
			c.ID = uuid.NewString()
			status = http.StatusCreated
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveClient(ctx, c); err != nil {
			apierr.Write(w, log.With(slog.String("client_id", c.ID)), op, err)
			return
		}

		render.Status(r, status)
		render.JSON(w, r, c)
	}
}
