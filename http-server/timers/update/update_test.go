package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"retifica/internal/service/timer"
	"retifica/internal/storage"
)

type MockTimerController struct {
	mock.Mock
}

func (m *MockTimerController) Start(ctx context.Context, key timer.Key) (timer.Snapshot, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(timer.Snapshot), args.Error(1)
}

func (m *MockTimerController) Pause(ctx context.Context, key timer.Key) (timer.Snapshot, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(timer.Snapshot), args.Error(1)
}

func (m *MockTimerController) Resume(ctx context.Context, key timer.Key) (timer.Snapshot, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(timer.Snapshot), args.Error(1)
}

func (m *MockTimerController) Finish(ctx context.Context, key timer.Key) (timer.Snapshot, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(timer.Snapshot), args.Error(1)
}

func TestStartTimer(t *testing.T) {
	ctl := new(MockTimerController)
	ctl.On("Start", mock.Anything, timer.Key{OrderID: "os-1", Stage: storage.StageWashing}).
		Return(timer.Snapshot{Key: "timer_os-1_lavagem", Status: timer.StatusRunning}, nil)

	rr := httptest.NewRecorder()
	StartTimer(slog.Default(), ctl).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/timers/start",
		strings.NewReader(`{"order_id":"os-1","stage":"lavagem"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"running"`)
	ctl.AssertExpectations(t)
}

func TestPauseTimer_InvalidTransition(t *testing.T) {
	ctl := new(MockTimerController)
	ctl.On("Pause", mock.Anything, mock.Anything).
		Return(timer.Snapshot{}, fmt.Errorf("pause from idle: %w", timer.ErrInvalidTransition))

	rr := httptest.NewRecorder()
	PauseTimer(slog.Default(), ctl).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/timers/pause",
		strings.NewReader(`{"order_id":"os-1","stage":"montagem"}`)))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestFinishTimer_InvalidKey(t *testing.T) {
	ctl := new(MockTimerController)
	ctl.On("Finish", mock.Anything, mock.Anything).Return(timer.Snapshot{}, timer.ErrInvalidKey)

	rr := httptest.NewRecorder()
	FinishTimer(slog.Default(), ctl).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/timers/finish",
		strings.NewReader(`{"stage":"montagem"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	ResumeTimer(slog.Default(), ctl).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/timers/resume",
		strings.NewReader(`{"order_id":"os-1","stage":"pintura"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func (m *MockTimerController) Reset(ctx context.Context, key timer.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestResetTimer(t *testing.T) {
	ctl := new(MockTimerController)
	key := timer.Key{OrderID: "os-1", Stage: storage.StageMachining, ServiceType: storage.ServiceBlock}
	ctl.On("Reset", mock.Anything, key).Return(nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/timers?order_id=os-1&stage=retifica&service_type=bloco", nil)
	ResetTimer(slog.Default(), ctl).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	ctl.AssertExpectations(t)
}

func TestResetTimer_MissingOrder(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/timers?stage=lavagem", nil)
	ResetTimer(slog.Default(), new(MockTimerController)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
