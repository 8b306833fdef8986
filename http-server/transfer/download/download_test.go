package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/storage"
)

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ServiceOrder), args.Error(1)
}

func (m *MockExporter) ListClients(ctx context.Context, search string) ([]storage.Client, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Client), args.Error(1)
}

func TestExportClientsCSV(t *testing.T) {
	exporter := new(MockExporter)
	exporter.On("ListClients", mock.Anything, "").Return([]storage.Client{
		{ID: "c-1", Name: "Auto Peças Lima", Phone: "51 3333-0000"},
	}, nil)

	rr := httptest.NewRecorder()
	ExportClientsCSV(slog.Default(), exporter).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/export/clients.csv", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "c-1,Auto Peças Lima,,51 3333-0000"))
}

func TestExportOrdersCSV(t *testing.T) {
	exporter := new(MockExporter)
	exporter.On("ListOrders", mock.Anything, mock.MatchedBy(func(f storage.OrderFilter) bool {
		return f.ClientID == "c-1"
	})).Return([]storage.ServiceOrder{{ID: "os-1", ClientID: "c-1", Status: storage.OrderOpen}}, nil)

	rr := httptest.NewRecorder()
	ExportOrdersCSV(slog.Default(), exporter).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/export/orders.csv?client_id=c-1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "os-1,,c-1")
}

func TestExportOrdersCSV_Error(t *testing.T) {
	exporter := new(MockExporter)
	exporter.On("ListOrders", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	rr := httptest.NewRecorder()
	ExportOrdersCSV(slog.Default(), exporter).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/export/orders.csv", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
