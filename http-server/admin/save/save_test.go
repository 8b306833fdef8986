package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/storage"
)

type MockAdminCreateProvider struct {
	mock.Mock
}

func (m *MockAdminCreateProvider) CreateEmployee(ctx context.Context, e storage.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockAdminCreateProvider) SaveSubActivity(ctx context.Context, it storage.SubActivityTemplate) error {
	return m.Called(ctx, it).Error(0)
}

func TestSaveEmployeeAdmin(t *testing.T) {
	admin := new(MockAdminCreateProvider)
	admin.On("CreateEmployee", mock.Anything, mock.MatchedBy(func(e storage.Employee) bool {
		return e.ID != "" &&
			e.Name == "Bruno" &&
			e.Role == storage.RoleEmployee &&
			e.Status == storage.EmployeeAvailable &&
			len(e.Specialties) == 2
	})).Return(nil)

	rr := httptest.NewRecorder()
	SaveEmployeeAdmin(slog.Default(), admin).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/employees",
		strings.NewReader(`{"name":"Bruno","specialties":["bloco","biela"]}`)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	admin.AssertExpectations(t)
}

func TestSaveEmployeeAdmin_InvalidRole(t *testing.T) {
	admin := new(MockAdminCreateProvider)

	rr := httptest.NewRecorder()
	SaveEmployeeAdmin(slog.Default(), admin).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/employees",
		strings.NewReader(`{"name":"X","role":"dono"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	admin.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything)
}

func TestSaveSubActivityAdmin(t *testing.T) {
	admin := new(MockAdminCreateProvider)
	admin.On("SaveSubActivity", mock.Anything, mock.MatchedBy(func(it storage.SubActivityTemplate) bool {
		return it.ID != "" && it.ServiceType == storage.ServiceCrankshaft && it.EstimatedMinutes == 120
	})).Return(nil)

	rr := httptest.NewRecorder()
	SaveSubActivityAdmin(slog.Default(), admin).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/catalog",
		strings.NewReader(`{"service_type":"virabrequim","name":"Retificar colos","estimated_minutes":120}`)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	SaveSubActivityAdmin(slog.Default(), admin).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/catalog",
		strings.NewReader(`{"name":"Sem tipo"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
