package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	"retifica/internal/service/dashboard"
)

type SummaryProvider interface {
	Summary(ctx context.Context) (dashboard.Summary, error)
}

func GetDashboard(log *slog.Logger, provider SummaryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.GetDashboard"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sum, err := provider.Summary(ctx)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		render.JSON(w, r, sum)
	}
}
