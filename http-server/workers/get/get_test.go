package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/storage"
)

type MockWorkers struct {
	mock.Mock
}

func (m *MockWorkers) ListEmployees(ctx context.Context, onlyActive bool) ([]storage.Employee, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Employee), args.Error(1)
}

func (m *MockWorkers) GetEmployee(ctx context.Context, id string) (*storage.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Employee), args.Error(1)
}

func TestGetWorkers(t *testing.T) {
	workers := new(MockWorkers)
	workers.On("ListEmployees", mock.Anything, true).Return([]storage.Employee{{ID: "e1", Name: "Ana"}}, nil)
	workers.On("ListEmployees", mock.Anything, false).Return([]storage.Employee{{ID: "e1"}, {ID: "e2"}}, nil)

	rr := httptest.NewRecorder()
	GetWorkers(slog.Default(), workers).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Ana"`)

	rr = httptest.NewRecorder()
	GetWorkers(slog.Default(), workers).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/employees?all=true", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"e2"`)

	workers.AssertExpectations(t)
}

func TestGetWorker(t *testing.T) {
	workers := new(MockWorkers)
	workers.On("GetEmployee", mock.Anything, "e1").Return(&storage.Employee{
		ID: "e1", Status: storage.EmployeeOccupied,
		Activity: &storage.Activity{OrderID: "os-1", Stage: storage.StageAssembly},
	}, nil)
	workers.On("GetEmployee", mock.Anything, "e9").Return(nil, fmt.Errorf("wrap: %w", storage.ErrNotFound))

	router := chi.NewRouter()
	router.Get("/api/employees/{id}", GetWorker(slog.Default(), workers))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/employees/e1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"order_id":"os-1"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/employees/e9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
