package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
)

const maxPayload = 5 << 20

type Importer interface {
	ImportClients(ctx context.Context, r io.Reader) (int, error)
	ImportMotors(ctx context.Context, r io.Reader) (int, error)
}

type importFunc func(ctx context.Context, r io.Reader) (int, error)

func importJSON(log *slog.Logger, op string, fn importFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, maxPayload)

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		n, err := fn(ctx, body)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		log.Info("import finished", slog.String("op", op), slog.Int("imported", n))
		render.JSON(w, r, map[string]int{"imported": n})
	}
}

func ImportClients(log *slog.Logger, importer Importer) http.HandlerFunc {
	return importJSON(log, "handlers.transfer.ImportClients", importer.ImportClients)
}

func ImportMotors(log *slog.Logger, importer Importer) http.HandlerFunc {
	return importJSON(log, "handlers.transfer.ImportMotors", importer.ImportMotors)
}
