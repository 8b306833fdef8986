package occupancy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retifica/internal/storage"
)

type EmployeeStore interface {
	GetEmployee(ctx context.Context, id string) (*storage.Employee, error)
	UpdateEmployeeActivity(ctx context.Context, id string, status storage.EmployeeStatus, activity *storage.Activity) error
}

// Assignment: кто и где должен работать по мнению заказа.
type Assignment struct {
	OrderID        string
	Stage          storage.Stage
	ServiceType    storage.ServiceType
	EmployeeID     string
	StageCompleted bool
}

type Synchronizer struct {
	store EmployeeStore
	log   *slog.Logger
	now   func() time.Time
}

func NewSynchronizer(log *slog.Logger, store EmployeeStore) *Synchronizer {
	return &Synchronizer{store: store, log: log, now: time.Now}
}

func (s *Synchronizer) WithClock(now func() time.Time) *Synchronizer {
	s.now = now
	return s
}

// matches сравнивает текущую активность с ожидаемой. Тип услуги
// учитывается, только если он задан в назначении.
func matches(a *storage.Activity, as Assignment) bool {
	if a == nil {
		return false
	}
	if a.OrderID != as.OrderID || a.Stage != as.Stage {
		return false
	}
	if as.ServiceType != storage.ServiceNone && a.ServiceType != as.ServiceType {
		return false
	}
	return true
}

// Sync помечает сотрудника занятым, если его текущая активность расходится
// с назначением. Возвращает true, если была запись.
func (s *Synchronizer) Sync(ctx context.Context, as Assignment) (bool, error) {
	const op = "service.occupancy.Sync"

	if as.StageCompleted || as.EmployeeID == "" {
		return false, nil
	}

	emp, err := s.store.GetEmployee(ctx, as.EmployeeID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if emp.Status == storage.EmployeeInactive {
		return false, nil
	}
	if emp.Status == storage.EmployeeOccupied && matches(emp.Activity, as) {
		return false, nil
	}

	activity := &storage.Activity{
		OrderID:     as.OrderID,
		Stage:       as.Stage,
		ServiceType: as.ServiceType,
		StartedAt:   s.now().UTC(),
	}

	if err := s.store.UpdateEmployeeActivity(ctx, emp.ID, storage.EmployeeOccupied, activity); err != nil {
		return false, fmt.Errorf("%s: ошибка обновления статуса сотрудника id=%s: %w", op, emp.ID, err)
	}

	s.log.Info("employee occupied",
		slog.String("op", op),
		slog.String("employee_id", emp.ID),
		slog.String("order_id", as.OrderID),
		slog.String("stage", string(as.Stage)),
		slog.String("service_type", string(as.ServiceType)),
	)

	return true, nil
}

// Release освобождает сотрудника, если он всё ещё числится на этом заказе.
func (s *Synchronizer) Release(ctx context.Context, employeeID, orderID string) (bool, error) {
	const op = "service.occupancy.Release"

	if employeeID == "" {
		return false, nil
	}

	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if emp.Status != storage.EmployeeOccupied || emp.Activity == nil || emp.Activity.OrderID != orderID {
		return false, nil
	}

	if err := s.store.UpdateEmployeeActivity(ctx, emp.ID, storage.EmployeeAvailable, nil); err != nil {
		return false, fmt.Errorf("%s: ошибка освобождения сотрудника id=%s: %w", op, emp.ID, err)
	}

	return true, nil
}
