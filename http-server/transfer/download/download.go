package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ordersget "retifica/http-server/orders/get"
	"retifica/internal/service/transfer"
	"retifica/internal/storage"
)

type Exporter interface {
	ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error)
	ListClients(ctx context.Context, search string) ([]storage.Client, error)
}

func writeCSVHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.csv", name, time.Now().Format("2006-01-02")))
}

func ExportOrdersCSV(log *slog.Logger, exporter Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.ExportOrdersCSV"

		filter, ok := ordersget.ParseFilter(r)
		if !ok {
			http.Error(w, "invalid filter", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orders, err := exporter.ListOrders(ctx, filter)
		if err != nil {
			log.Error("failed to load orders", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		writeCSVHeaders(w, "ordens")
		if err := transfer.WriteCSV(w, transfer.OrderHeader, transfer.OrderRows(orders)); err != nil {
			log.Error("failed to write csv", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}

func ExportClientsCSV(log *slog.Logger, exporter Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.ExportClientsCSV"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		clients, err := exporter.ListClients(ctx, "")
		if err != nil {
			log.Error("failed to load clients", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		writeCSVHeaders(w, "clientes")
		if err := transfer.WriteCSV(w, transfer.ClientHeader, transfer.ClientRows(clients)); err != nil {
			log.Error("failed to write csv", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
