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

type ClientProvider interface {
	ListClients(ctx context.Context, search string) ([]storage.Client, error)
}

func GetClients(log *slog.Logger, provider ClientProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.GetClients"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		clients, err := provider.ListClients(ctx, r.URL.Query().Get("q"))
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, clients)
	}
}
