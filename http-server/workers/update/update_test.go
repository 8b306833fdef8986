package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/events"
	"retifica/internal/storage"
)

type MockStatusUpdater struct {
	mock.Mock
}

func (m *MockStatusUpdater) UpdateEmployeeActivity(ctx context.Context, id string, status storage.EmployeeStatus, activity *storage.Activity) error {
	return m.Called(ctx, id, status, activity).Error(0)
}

func serve(h http.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Put("/api/employees/{id}/status", h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/employees/"+id+"/status", strings.NewReader(body)))
	return rr
}

func TestUpdateWorkerStatus(t *testing.T) {
	updater := new(MockStatusUpdater)
	updater.On("UpdateEmployeeActivity", mock.Anything, "e1", storage.EmployeeInactive, (*storage.Activity)(nil)).Return(nil)

	rr := serve(UpdateWorkerStatus(slog.Default(), updater, events.Noop{}), "e1", `{"status":"inativo"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	updater.AssertExpectations(t)
}

func TestUpdateWorkerStatus_OccupiedRejected(t *testing.T) {
	updater := new(MockStatusUpdater)

	rr := serve(UpdateWorkerStatus(slog.Default(), updater, events.Noop{}), "e1", `{"status":"ocupado"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	updater.AssertNotCalled(t, "UpdateEmployeeActivity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateWorkerStatus_NotFound(t *testing.T) {
	updater := new(MockStatusUpdater)
	updater.On("UpdateEmployeeActivity", mock.Anything, "e9", storage.EmployeeAvailable, (*storage.Activity)(nil)).
		Return(fmt.Errorf("wrap: %w", storage.ErrNotFound))

	rr := serve(UpdateWorkerStatus(slog.Default(), updater, events.Noop{}), "e9", `{"status":"disponivel"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
