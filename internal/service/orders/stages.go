package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retifica/internal/service/occupancy"
	"retifica/internal/service/workflow"
	"retifica/internal/storage"
)

// target: куда пишется действие: в саму услугу (если этап ведётся
// по услугам) или в этап.
type target struct {
	stage   storage.Stage
	service *storage.Service
	actor   storage.Employee
}

// resolve проверяет права и применимость этапа к заказу.
func (s *Service) resolve(ctx context.Context, o *storage.ServiceOrder, a StageAction, gate func(storage.Employee) bool) (target, error) {
	info, ok := workflow.Lookup(a.Stage)
	if !ok {
		return target{}, fmt.Errorf("%w: unknown stage %q", ErrInvalid, a.Stage)
	}
	if a.EmployeeID == "" {
		return target{}, fmt.Errorf("%w: employee_id is required", ErrInvalid)
	}

	emp, err := s.employees.GetEmployee(ctx, a.EmployeeID)
	if err != nil {
		return target{}, err
	}
	if emp.Status == storage.EmployeeInactive || !gate(*emp) {
		return target{}, fmt.Errorf("%w: employee %s on stage %s", ErrForbidden, emp.ID, a.Stage)
	}

	if !workflow.IsRelevant(a.Stage, o.Services) {
		return target{}, fmt.Errorf("%w: %s", ErrStageNotApplicable, a.Stage)
	}

	t := target{stage: info.ID, actor: *emp}
	if a.ServiceType == storage.ServiceNone {
		return t, nil
	}

	svc := o.Service(a.ServiceType)
	if svc == nil {
		return target{}, fmt.Errorf("%w: service %s is not on the order", ErrStageNotApplicable, a.ServiceType)
	}
	// на инспекциях услуга только определяет допуск, прогресс пишется в этап
	if stage, ok := workflow.StageForService(a.ServiceType); ok && stage == info.ID {
		t.service = svc
	}
	return t, nil
}

// stillAssigned: сотрудник ведёт в заказе ещё какой-то незакрытый этап или услугу.
func (s *Service) stillAssigned(o storage.ServiceOrder, employeeID string) bool {
	for _, stage := range workflow.ApplicableStages(o.Services) {
		if sp := o.Stages[stage]; sp.EmployeeID == employeeID && !sp.Completed {
			return true
		}
	}
	for _, svc := range o.Services {
		if svc.EmployeeID == employeeID && !svc.Completed {
			return true
		}
	}
	return false
}

func durationSince(start *time.Time, now time.Time) int64 {
	if start == nil || now.Before(*start) {
		return 0
	}
	return int64(now.Sub(*start) / time.Second)
}

// StartStage отмечает начало работы и занимает сотрудника.
func (s *Service) StartStage(ctx context.Context, a StageAction) (OrderView, error) {
	const op = "service.orders.StartStage"

	// прежний исполнитель, если работу передали другому
	var replaced string
	v, err := s.mutate(ctx, op, a.OrderID, func(o *storage.ServiceOrder) error {
		t, err := s.resolve(ctx, o, a, func(e storage.Employee) bool {
			return workflow.CanAct(e, a.Stage, a.ServiceType)
		})
		if err != nil {
			return err
		}

		now := s.now().UTC()
		name := t.actor.Name

		if t.service != nil {
			if t.service.Completed {
				return fmt.Errorf("%w: service %s already completed", ErrConflict, t.service.Type)
			}
			if prev := t.service.EmployeeID; prev != a.EmployeeID {
				replaced = prev
			}
			t.service.EmployeeID, t.service.EmployeeName = a.EmployeeID, name
			if t.service.StartedAt == nil {
				t.service.StartedAt = &now
			}
			// этап считается начатым вместе с первой услугой
			sp := o.Stages[t.stage]
			if !sp.Started {
				sp.Started, sp.StartedAt = true, &now
				o.Stages[t.stage] = sp
			}
			return nil
		}

		sp := o.Stages[t.stage]
		if sp.Completed {
			return fmt.Errorf("%w: stage %s already completed", ErrConflict, t.stage)
		}
		if sp.EmployeeID != a.EmployeeID {
			replaced = sp.EmployeeID
		}
		sp.Started = true
		sp.EmployeeID, sp.EmployeeName = a.EmployeeID, name
		if sp.StartedAt == nil {
			sp.StartedAt = &now
		}
		o.Stages[t.stage] = sp
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	if replaced != "" && !s.stillAssigned(v.ServiceOrder, replaced) {
		s.release(ctx, replaced, a.OrderID)
	}

	_, err = s.occupancy.Sync(ctx, occupancy.Assignment{
		OrderID:     a.OrderID,
		Stage:       a.Stage,
		ServiceType: a.ServiceType,
		EmployeeID:  a.EmployeeID,
	})
	if err != nil {
		s.log.Error("failed to sync employee occupancy",
			slog.String("op", op),
			slog.String("order_id", a.OrderID),
			slog.String("error", err.Error()),
		)
	}

	return v, nil
}

// CompleteStage закрывает этап вместе с его услугами.
func (s *Service) CompleteStage(ctx context.Context, a StageAction) (OrderView, error) {
	const op = "service.orders.CompleteStage"

	var assigned []string
	v, err := s.mutate(ctx, op, a.OrderID, func(o *storage.ServiceOrder) error {
		t, err := s.resolve(ctx, o, a, func(e storage.Employee) bool {
			return workflow.CanAct(e, a.Stage, a.ServiceType)
		})
		if err != nil {
			return err
		}

		sp := o.Stages[t.stage]
		if sp.Completed {
			return fmt.Errorf("%w: stage %s already completed", ErrConflict, t.stage)
		}

		now := s.now().UTC()
		if sp.EmployeeID == "" {
			sp.EmployeeID, sp.EmployeeName = a.EmployeeID, t.actor.Name
		}
		assigned = append(assigned, sp.EmployeeID)
		completeStage(&sp, now)
		o.Stages[t.stage] = sp

		for i := range o.Services {
			svc := &o.Services[i]
			if stage, ok := workflow.StageForService(svc.Type); !ok || stage != t.stage || svc.Completed {
				continue
			}
			completeService(svc, now)
			assigned = append(assigned, svc.EmployeeID)
		}
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	for _, id := range assigned {
		if id != "" {
			s.release(ctx, id, a.OrderID)
		}
	}
	return v, nil
}

// CompleteService закрывает услугу. Когда закрыты все услуги этапа,
// закрывается и этап.
func (s *Service) CompleteService(ctx context.Context, a StageAction) (OrderView, error) {
	const op = "service.orders.CompleteService"

	if a.ServiceType == storage.ServiceNone {
		return OrderView{}, fmt.Errorf("%s: %w: service_type is required", op, ErrInvalid)
	}
	if a.Stage == "" {
		stage, ok := workflow.StageForService(a.ServiceType)
		if !ok {
			return OrderView{}, fmt.Errorf("%s: %w: unknown service %q", op, ErrInvalid, a.ServiceType)
		}
		a.Stage = stage
	}

	var assigned string
	v, err := s.mutate(ctx, op, a.OrderID, func(o *storage.ServiceOrder) error {
		t, err := s.resolve(ctx, o, a, func(e storage.Employee) bool {
			return workflow.CanAct(e, a.Stage, a.ServiceType)
		})
		if err != nil {
			return err
		}
		if t.service == nil {
			return fmt.Errorf("%w: service %s does not belong to stage %s", ErrInvalid, a.ServiceType, a.Stage)
		}
		if t.service.Completed {
			return fmt.Errorf("%w: service %s already completed", ErrConflict, t.service.Type)
		}

		now := s.now().UTC()
		if t.service.EmployeeID == "" {
			t.service.EmployeeID, t.service.EmployeeName = a.EmployeeID, t.actor.Name
		}
		assigned = t.service.EmployeeID
		completeService(t.service, now)

		for _, svc := range o.Services {
			if stage, ok := workflow.StageForService(svc.Type); ok && stage == t.stage && !svc.Completed {
				return nil
			}
		}
		sp := o.Stages[t.stage]
		completeStage(&sp, now)
		o.Stages[t.stage] = sp
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	s.release(ctx, assigned, a.OrderID)
	return v, nil
}

// Reopen снимает отметку о завершении. Только для админа.
func (s *Service) Reopen(ctx context.Context, a StageAction) (OrderView, error) {
	const op = "service.orders.Reopen"

	return s.mutate(ctx, op, a.OrderID, func(o *storage.ServiceOrder) error {
		t, err := s.resolve(ctx, o, a, workflow.CanReopen)
		if err != nil {
			return err
		}

		if t.service != nil {
			t.service.Completed = false
			t.service.CompletedAt = nil
		}
		sp := o.Stages[t.stage]
		sp.Completed = false
		sp.CompletedAt = nil
		o.Stages[t.stage] = sp
		return nil
	})
}

func (s *Service) ToggleSubActivity(ctx context.Context, orderID string, serviceType storage.ServiceType, subID string, done bool) (OrderView, error) {
	const op = "service.orders.ToggleSubActivity"

	return s.mutate(ctx, op, orderID, func(o *storage.ServiceOrder) error {
		svc := o.Service(serviceType)
		if svc == nil {
			return fmt.Errorf("%w: service %s is not on the order", ErrInvalid, serviceType)
		}
		for i := range svc.SubActivities {
			if svc.SubActivities[i].ID == subID {
				svc.SubActivities[i].Completed = done
				return nil
			}
		}
		return fmt.Errorf("sub-activity %s: %w", subID, storage.ErrNotFound)
	})
}

func completeStage(sp *storage.StageProgress, now time.Time) {
	sp.Started = true
	sp.Completed = true
	sp.CompletedAt = &now
	if sp.StartedAt == nil {
		sp.StartedAt = &now
	}
	// оценка по часам, только если таймер ещё ничего не записал
	if !sp.TimerRecorded && sp.DurationSeconds == 0 {
		sp.DurationSeconds = durationSince(sp.StartedAt, now)
	}
}

func completeService(svc *storage.Service, now time.Time) {
	svc.Completed = true
	svc.CompletedAt = &now
	if svc.StartedAt == nil {
		svc.StartedAt = &now
	}
	if !svc.TimerRecorded && svc.DurationSeconds == 0 {
		svc.DurationSeconds = durationSince(svc.StartedAt, now)
	}
}
