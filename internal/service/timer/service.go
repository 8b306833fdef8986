package timer

import (
	"context"
	"fmt"
	"time"

	"retifica/internal/storage"
)

// Store хранит состояние таймеров. Отсутствующая или битая запись
// возвращается как (nil, nil), а не как ошибка.
type Store interface {
	Load(ctx context.Context, key string) (*storage.TimerState, error)
	Save(ctx context.Context, key string, st storage.TimerState) error
	Delete(ctx context.Context, key string) error
}

// DurationRecorder сохраняет итог таймера в документ заказа.
type DurationRecorder interface {
	RecordDuration(ctx context.Context, orderID string, stage storage.Stage, service storage.ServiceType, seconds int64) error
}

type Snapshot struct {
	Key            string             `json:"key"`
	Status         Status             `json:"status"`
	ElapsedSeconds int64              `json:"elapsed_seconds"`
	Display        string             `json:"display"`
	TotalSeconds   int64              `json:"total_seconds"`
	State          storage.TimerState `json:"state"`
}

type Service struct {
	store    Store
	recorder DurationRecorder
	now      func() time.Time
}

func NewService(store Store, recorder DurationRecorder) *Service {
	return &Service{store: store, recorder: recorder, now: time.Now}
}

// WithClock подменяет часы, нужно для тестов.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// snapshot: после финиша табло показывает ноль, итог лежит в TotalSeconds.
func (s *Service) snapshot(key Key, st storage.TimerState) Snapshot {
	elapsed := int64(Elapsed(st, s.now()) / time.Second)
	return Snapshot{
		Key:            key.String(),
		Status:         StatusOf(st),
		ElapsedSeconds: elapsed,
		Display:        FormatHMS(elapsed),
		TotalSeconds:   st.TotalTime,
		State:          st,
	}
}

func (s *Service) load(ctx context.Context, key Key) (storage.TimerState, error) {
	if err := key.Validate(); err != nil {
		return storage.TimerState{}, err
	}
	st, err := s.store.Load(ctx, key.String())
	if err != nil {
		return storage.TimerState{}, err
	}
	if st == nil {
		return storage.TimerState{}, nil
	}
	return *st, nil
}

func (s *Service) Get(ctx context.Context, key Key) (Snapshot, error) {
	const op = "service.timer.Get"

	st, err := s.load(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.snapshot(key, st), nil
}

func (s *Service) transition(ctx context.Context, op string, key Key, apply func(*storage.TimerState, time.Time) error) (Snapshot, error) {
	st, err := s.load(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := apply(&st, s.now()); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Save(ctx, key.String(), st); err != nil {
		return Snapshot{}, fmt.Errorf("%s: ошибка сохранения таймера %s: %w", op, key, err)
	}

	return s.snapshot(key, st), nil
}

func (s *Service) Start(ctx context.Context, key Key) (Snapshot, error) {
	return s.transition(ctx, "service.timer.Start", key, Start)
}

func (s *Service) Pause(ctx context.Context, key Key) (Snapshot, error) {
	return s.transition(ctx, "service.timer.Pause", key, Pause)
}

func (s *Service) Resume(ctx context.Context, key Key) (Snapshot, error) {
	return s.transition(ctx, "service.timer.Resume", key, Resume)
}

// Finish останавливает таймер и отдаёт итог в секундах. Состояние таймера
// сохраняется первым: сбой записи итога в заказ не оставляет таймер идущим,
// ошибка записи возвращается вместе со снимком.
func (s *Service) Finish(ctx context.Context, key Key) (Snapshot, error) {
	const op = "service.timer.Finish"

	var total int64
	snap, err := s.transition(ctx, op, key, func(st *storage.TimerState, now time.Time) error {
		var err error
		total, err = Finish(st, now)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}

	if s.recorder == nil {
		return snap, nil
	}
	if err := s.recorder.RecordDuration(ctx, key.OrderID, key.Stage, key.ServiceType, total); err != nil {
		return snap, fmt.Errorf("%s: ошибка записи длительности %s: %w", op, key, err)
	}

	return snap, nil
}

// Reset удаляет таймер целиком.
func (s *Service) Reset(ctx context.Context, key Key) error {
	const op = "service.timer.Reset"

	if err := key.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Delete(ctx, key.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// KeyLister перечисляет ключи таймеров заказа. Store может его реализовать.
type KeyLister interface {
	Keys(ctx context.Context, orderID string) ([]string, error)
}

// PurgeOrder удаляет все таймеры заказа. Без KeyLister ничего не делает.
func (s *Service) PurgeOrder(ctx context.Context, orderID string) (int, error) {
	const op = "service.timer.PurgeOrder"

	lister, ok := s.store.(KeyLister)
	if !ok {
		return 0, nil
	}

	keys, err := lister.Keys(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			return 0, fmt.Errorf("%s: key %s: %w", op, k, err)
		}
	}
	return len(keys), nil
}
