package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ordersget "retifica/http-server/orders/get"
	"retifica/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter storage.OrderFilter) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		// те же параметры, что у списка заказов
		filter, ok := ordersget.ParseFilter(r)
		if !ok {
			http.Error(w, "invalid filter", http.StatusBadRequest)
			return
		}

		// по умолчанию: с начала месяца
		if filter.From.IsZero() && filter.To.IsZero() {
			now := time.Now()
			filter.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second) // на Excel можно побольше времени
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Relatorio_OS_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
