package delete

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

type MockOrderDeleter struct {
	mock.Mock
}

func (m *MockOrderDeleter) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestDeleteOrder(t *testing.T) {
	deleter := new(MockOrderDeleter)
	deleter.On("Delete", mock.Anything, "os-1").Return(nil)
	deleter.On("Delete", mock.Anything, "os-2").Return(fmt.Errorf("wrap: %w", storage.ErrNotFound))

	router := chi.NewRouter()
	router.Delete("/api/orders/{id}", DeleteOrder(slog.Default(), deleter))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/orders/os-1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deleted")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/orders/os-2", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
