package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/storage"
)

type MockClientProvider struct {
	mock.Mock
}

func (m *MockClientProvider) ListClients(ctx context.Context, search string) ([]storage.Client, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Client), args.Error(1)
}

func TestGetClients(t *testing.T) {
	provider := new(MockClientProvider)
	provider.On("ListClients", mock.Anything, "lima").Return([]storage.Client{{ID: "c-1", Name: "Auto Peças Lima"}}, nil)

	rr := httptest.NewRecorder()
	GetClients(slog.Default(), provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients?q=lima", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Auto Peças Lima")
}

func TestGetClients_Error(t *testing.T) {
	provider := new(MockClientProvider)
	provider.On("ListClients", mock.Anything, "").Return(nil, errors.New("db down"))

	rr := httptest.NewRecorder()
	GetClients(slog.Default(), provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
