package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retifica/internal/storage"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]storage.TimerState
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]storage.TimerState{}}
}

func (m *memoryStore) Load(_ context.Context, key string) (*storage.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *memoryStore) Save(_ context.Context, key string, st storage.TimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = st
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordDuration(ctx context.Context, orderID string, stage storage.Stage, service storage.ServiceType, seconds int64) error {
	args := m.Called(ctx, orderID, stage, service, seconds)
	return args.Error(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestKey_String(t *testing.T) {
	assert.Equal(t, "timer_os-1_lavagem", Key{OrderID: "os-1", Stage: storage.StageWashing}.String())
	assert.Equal(t, "timer_os-1_retifica_bloco",
		Key{OrderID: "os-1", Stage: storage.StageMachining, ServiceType: storage.ServiceBlock}.String())

	assert.ErrorIs(t, Key{Stage: storage.StageWashing}.Validate(), ErrInvalidKey)
	assert.ErrorIs(t, Key{OrderID: "x", Stage: "pintura"}.Validate(), ErrInvalidKey)
	assert.NoError(t, Key{OrderID: "x", Stage: storage.StageAssembly}.Validate())
}

func TestFormatHMS(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatHMS(0))
	assert.Equal(t, "00:01:05", FormatHMS(65))
	assert.Equal(t, "01:00:00", FormatHMS(3600))
	assert.Equal(t, "27:46:39", FormatHMS(99999))
	assert.Equal(t, "00:00:00", FormatHMS(-5))
}

func TestStateMachine_StartFinishImmediately(t *testing.T) {
	var st storage.TimerState
	assert.Equal(t, StatusIdle, StatusOf(st))

	require.NoError(t, Start(&st, t0))
	assert.Equal(t, StatusRunning, StatusOf(st))

	total, err := Finish(&st, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, StatusFinished, StatusOf(st))
	assert.False(t, st.IsRunning)
	assert.False(t, st.IsPaused)
	assert.Equal(t, int64(0), st.ElapsedTime)
}

func TestStateMachine_PauseExcluded(t *testing.T) {
	var st storage.TimerState

	require.NoError(t, Start(&st, t0))
	assert.Equal(t, 10*time.Second, Elapsed(st, t0.Add(10*time.Second)))

	require.NoError(t, Pause(&st, t0.Add(10*time.Second)))
	assert.Equal(t, StatusPaused, StatusOf(st))
	// на паузе время стоит
	assert.Equal(t, 10*time.Second, Elapsed(st, t0.Add(50*time.Second)))
	require.Len(t, st.Pauses, 1)
	assert.Zero(t, st.Pauses[0].End)

	require.NoError(t, Resume(&st, t0.Add(70*time.Second)))
	assert.Equal(t, StatusRunning, StatusOf(st))
	assert.Equal(t, int64(60_000), st.TotalPausedTime)
	assert.Equal(t, t0.Add(70*time.Second).UnixMilli(), st.Pauses[0].End)

	total, err := Finish(&st, t0.Add(100*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
	assert.Equal(t, int64(40), st.TotalTime)
}

func TestStateMachine_FinishWhilePaused(t *testing.T) {
	var st storage.TimerState
	require.NoError(t, Start(&st, t0))
	require.NoError(t, Pause(&st, t0.Add(30*time.Second)))

	total, err := Finish(&st, t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
	assert.Equal(t, t0.Add(10*time.Minute).UnixMilli(), st.Pauses[0].End)
}

func TestStateMachine_InvalidTransitions(t *testing.T) {
	var st storage.TimerState

	assert.ErrorIs(t, Pause(&st, t0), ErrInvalidTransition)
	assert.ErrorIs(t, Resume(&st, t0), ErrInvalidTransition)
	_, err := Finish(&st, t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, Start(&st, t0))
	assert.ErrorIs(t, Start(&st, t0), ErrInvalidTransition)
	assert.ErrorIs(t, Resume(&st, t0), ErrInvalidTransition)

	require.NoError(t, Pause(&st, t0))
	assert.ErrorIs(t, Pause(&st, t0), ErrInvalidTransition)

	// после финиша можно стартовать заново
	_, err = Finish(&st, t0)
	require.NoError(t, err)
	require.NoError(t, Start(&st, t0.Add(time.Hour)))
	assert.Empty(t, st.Pauses)
	assert.Zero(t, st.TotalPausedTime)
}

func TestElapsed_NeverNegative(t *testing.T) {
	st := storage.TimerState{IsRunning: true, StartTime: t0.UnixMilli()}
	assert.Equal(t, time.Duration(0), Elapsed(st, t0.Add(-time.Minute)))
}

func TestService_Lifecycle(t *testing.T) {
	clock := &fakeClock{now: t0}
	store := newMemoryStore()
	recorder := new(MockRecorder)
	key := Key{OrderID: "os-7", Stage: storage.StageMachining, ServiceType: storage.ServiceHead}

	recorder.On("RecordDuration", mock.Anything, "os-7", storage.StageMachining, storage.ServiceHead, int64(95)).Return(nil)

	svc := NewService(store, recorder).WithClock(clock.Now)
	ctx := context.Background()

	snap, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, snap.Status)

	_, err = svc.Start(ctx, key)
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	snap, err = svc.Pause(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, snap.Status)
	assert.Equal(t, "00:00:45", snap.Display)

	clock.Advance(5 * time.Minute)
	_, err = svc.Resume(ctx, key)
	require.NoError(t, err)

	clock.Advance(50 * time.Second)
	snap, err = svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(95), snap.ElapsedSeconds)

	snap, err = svc.Finish(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, snap.Status)
	assert.Equal(t, int64(95), snap.TotalSeconds)

	clock.Advance(time.Minute)
	snap, err = svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, snap.ElapsedSeconds)
	assert.Equal(t, "00:00:00", snap.Display)
	assert.Equal(t, int64(95), snap.TotalSeconds)

	saved, err := store.Load(ctx, key.String())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.Finished)

	recorder.AssertExpectations(t)
}

func TestService_FinishRecorderError(t *testing.T) {
	clock := &fakeClock{now: t0}
	store := newMemoryStore()
	recorder := new(MockRecorder)
	key := Key{OrderID: "os-8", Stage: storage.StageWashing}

	recorder.On("RecordDuration", mock.Anything, "os-8", storage.StageWashing, storage.ServiceNone, int64(10)).
		Return(errors.New("db down"))

	svc := NewService(store, recorder).WithClock(clock.Now)
	ctx := context.Background()

	_, err := svc.Start(ctx, key)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	snap, err := svc.Finish(ctx, key)
	require.Error(t, err)
	assert.Equal(t, StatusFinished, snap.Status)
	assert.Equal(t, int64(10), snap.TotalSeconds)

	// таймер остановлен, хотя итог в заказ не записан
	snap, err = svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, snap.Status)
}

func TestService_FinishUnknownOrderStillStops(t *testing.T) {
	clock := &fakeClock{now: t0}
	recorder := new(MockRecorder)
	key := Key{OrderID: "does-not-exist", Stage: storage.StageMachining, ServiceType: storage.ServiceCrankshaft}

	recorder.On("RecordDuration", mock.Anything, "does-not-exist", storage.StageMachining, storage.ServiceCrankshaft, int64(30)).
		Return(fmt.Errorf("storage.mysql.RecordDuration: %w", storage.ErrNotFound))

	svc := NewService(newMemoryStore(), recorder).WithClock(clock.Now)
	ctx := context.Background()

	_, err := svc.Start(ctx, key)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)

	_, err = svc.Finish(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	snap, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, snap.Status)

	// повторный финиш не пишет итог второй раз
	_, err = svc.Finish(ctx, key)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	recorder.AssertNumberOfCalls(t, "RecordDuration", 1)
}

func TestService_InvalidKey(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)

	_, err := svc.Start(context.Background(), Key{Stage: storage.StageWashing})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTicker_StopsWhenPaused(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil)
	key := Key{OrderID: "os-9", Stage: storage.StageAssembly}
	ctx := context.Background()

	_, err := svc.Start(ctx, key)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		snaps []Snapshot
	)
	done := make(chan error, 1)
	go func() {
		done <- NewTicker(svc, 5*time.Millisecond).Run(ctx, key, func(s Snapshot) error {
			mu.Lock()
			snaps = append(snaps, s)
			n := len(snaps)
			mu.Unlock()
			if n == 3 {
				_, err := svc.Pause(ctx, key)
				return err
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop after pause")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(snaps), 4)
	assert.Equal(t, StatusPaused, snaps[len(snaps)-1].Status)
}

func TestTicker_StopsOnCancel(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	key := Key{OrderID: "os-10", Stage: storage.StageDynamometer}

	_, err := svc.Start(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewTicker(svc, 5*time.Millisecond).Run(ctx, key, func(Snapshot) error { return nil })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker leaked after cancel")
	}
}

func TestTicker_IdleTimerPublishesOnce(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	key := Key{OrderID: "os-11", Stage: storage.StageWashing}

	calls := 0
	err := NewTicker(svc, time.Millisecond).Run(context.Background(), key, func(s Snapshot) error {
		calls++
		assert.Equal(t, StatusIdle, s.Status)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

type listingStore struct {
	*memoryStore
}

func (l listingStore) Keys(_ context.Context, orderID string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var keys []string
	for k := range l.data {
		if strings.HasPrefix(k, "timer_"+orderID+"_") {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func TestService_PurgeOrder(t *testing.T) {
	store := listingStore{newMemoryStore()}
	clock := &fakeClock{now: t0}
	svc := NewService(store, nil).WithClock(clock.Now)
	ctx := context.Background()

	for _, k := range []Key{
		{OrderID: "os-1", Stage: storage.StageWashing},
		{OrderID: "os-1", Stage: storage.StageMachining, ServiceType: storage.ServiceBlock},
		{OrderID: "os-2", Stage: storage.StageWashing},
	} {
		_, err := svc.Start(ctx, k)
		require.NoError(t, err)
	}

	n, err := svc.PurgeOrder(ctx, "os-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.data, 1)

	n, err = NewService(newMemoryStore(), nil).PurgeOrder(ctx, "os-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
