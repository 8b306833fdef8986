package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retifica/http-server/apierr"
	timersget "retifica/http-server/timers/get"
	"retifica/internal/service/timer"
)

type TimerController interface {
	Start(ctx context.Context, key timer.Key) (timer.Snapshot, error)
	Pause(ctx context.Context, key timer.Key) (timer.Snapshot, error)
	Resume(ctx context.Context, key timer.Key) (timer.Snapshot, error)
	Finish(ctx context.Context, key timer.Key) (timer.Snapshot, error)
}

type transitionFunc func(ctx context.Context, key timer.Key) (timer.Snapshot, error)

func transition(log *slog.Logger, op string, fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var key timer.Key
		if err := render.DecodeJSON(r.Body, &key); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := fn(ctx, key)
		if err != nil {
			apierr.Write(w, log.With(slog.String("key", key.String())), op, err)
			return
		}

		log.Debug("timer updated", slog.String("op", op), slog.String("key", snap.Key), slog.String("status", string(snap.Status)))
		render.JSON(w, r, snap)
	}
}

func StartTimer(log *slog.Logger, ctl TimerController) http.HandlerFunc {
	return transition(log, "handlers.timers.StartTimer", ctl.Start)
}

func PauseTimer(log *slog.Logger, ctl TimerController) http.HandlerFunc {
	return transition(log, "handlers.timers.PauseTimer", ctl.Pause)
}

func ResumeTimer(log *slog.Logger, ctl TimerController) http.HandlerFunc {
	return transition(log, "handlers.timers.ResumeTimer", ctl.Resume)
}

func FinishTimer(log *slog.Logger, ctl TimerController) http.HandlerFunc {
	return transition(log, "handlers.timers.FinishTimer", ctl.Finish)
}

type TimerResetter interface {
	Reset(ctx context.Context, key timer.Key) error
}

func ResetTimer(log *slog.Logger, resetter TimerResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timers.ResetTimer"

		key, err := timersget.KeyFromQuery(r)
		if err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := resetter.Reset(ctx, key); err != nil {
			apierr.Write(w, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
