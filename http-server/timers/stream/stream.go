package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	timersget "retifica/http-server/timers/get"
	"retifica/internal/service/timer"
)

type TickRunner interface {
	Run(ctx context.Context, key timer.Key, publish func(timer.Snapshot) error) error
}

const writeWait = 5 * time.Second

// NewUpgrader проверяет Origin по списку из конфига; пустой список пропускает всех.
func NewUpgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowed) == 0 || origin == "" || allowed[origin]
		},
	}
}

// StreamTimer раз в секунду шлёт снимок таймера, пока он идёт.
// Тикер живёт не дольше соединения: закрытие сокета отменяет контекст.
func StreamTimer(log *slog.Logger, upgrader websocket.Upgrader, runner TickRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timers.StreamTimer"

		key, err := timersget.KeyFromQuery(r)
		if err != nil {
			http.Error(w, "order_id and a valid stage are required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", slog.String("op", op), slog.String("error", err.Error()))
			return
		}
		defer conn.Close()

		// дедлайн чтения от http.Server переживает hijack, снимаем его
		_ = conn.SetReadDeadline(time.Time{})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// читаем только ради close/ошибок от клиента
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						log.Debug("websocket closed", slog.String("op", op), slog.String("error", err.Error()))
					}
					return
				}
			}
		}()

		err = runner.Run(ctx, key, func(snap timer.Snapshot) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(snap)
		})
		if err != nil && ctx.Err() == nil {
			log.Error("timer stream failed",
				slog.String("op", op),
				slog.String("key", key.String()),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "timer error"),
				time.Now().Add(writeWait))
			return
		}

		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "timer stopped"),
			time.Now().Add(writeWait))
	}
}
