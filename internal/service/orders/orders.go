package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"retifica/internal/events"
	"retifica/internal/service/occupancy"
	"retifica/internal/service/workflow"
	"retifica/internal/storage"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrStageNotApplicable = errors.New("stage not applicable to order")
	ErrInvalid            = errors.New("invalid request")
	ErrConflict           = errors.New("conflicting state")
)

type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error)
	ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error)
	SaveOrder(ctx context.Context, o storage.ServiceOrder) error
	UpdateOrderWorkflow(ctx context.Context, o storage.ServiceOrder) error
	DeleteOrder(ctx context.Context, id string) error
}

type EmployeeProvider interface {
	GetEmployee(ctx context.Context, id string) (*storage.Employee, error)
}

type SubActivityProvider interface {
	ListSubActivities(ctx context.Context, serviceType storage.ServiceType) ([]storage.SubActivityTemplate, error)
}

type Occupancy interface {
	Sync(ctx context.Context, as occupancy.Assignment) (bool, error)
	Release(ctx context.Context, employeeID, orderID string) (bool, error)
}

// OrderView: заказ вместе с производными данными для клиента.
type OrderView struct {
	storage.ServiceOrder
	Progress         int             `json:"progress"`
	ApplicableStages []storage.Stage `json:"applicable_stages"`
	Overdue          bool            `json:"overdue"`
}

// TimerPurger убирает таймеры удалённого заказа.
type TimerPurger interface {
	PurgeOrder(ctx context.Context, orderID string) (int, error)
}

// StageAction: действие сотрудника над этапом или над услугой внутри этапа.
type StageAction struct {
	OrderID     string              `json:"-"`
	Stage       storage.Stage       `json:"stage"`
	ServiceType storage.ServiceType `json:"service_type,omitempty"`
	EmployeeID  string              `json:"employee_id"`
}

type Service struct {
	log       *slog.Logger
	orders    OrderStore
	employees EmployeeProvider
	catalog   SubActivityProvider
	occupancy Occupancy
	events    events.Publisher
	timers    TimerPurger
	now       func() time.Time
}

func New(log *slog.Logger, orders OrderStore, employees EmployeeProvider, catalog SubActivityProvider, occ Occupancy, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		log:       log,
		orders:    orders,
		employees: employees,
		catalog:   catalog,
		occupancy: occ,
		events:    pub,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithTimers(t TimerPurger) *Service {
	s.timers = t
	return s
}

func (s *Service) view(o storage.ServiceOrder) OrderView {
	return OrderView{
		ServiceOrder:     o,
		Progress:         workflow.Progress(o),
		ApplicableStages: workflow.ApplicableStages(o.Services),
		Overdue:          o.Overdue(s.now()),
	}
}

func (s *Service) publish(ctx context.Context, typ string, v OrderView) {
	err := s.events.Publish(ctx, events.Event{
		Type:     typ,
		OrderID:  v.ID,
		Status:   v.Status,
		Progress: v.Progress,
		At:       s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", typ),
			slog.String("order_id", v.ID),
			slog.String("error", err.Error()),
		)
	}
}

func validateServices(services []storage.Service) error {
	seen := make(map[storage.ServiceType]bool, len(services))
	for _, svc := range services {
		if svc.Type == storage.ServiceNone || !svc.Type.Valid() {
			return fmt.Errorf("%w: unknown service type %q", ErrInvalid, svc.Type)
		}
		if seen[svc.Type] {
			return fmt.Errorf("%w: duplicate service %q", ErrInvalid, svc.Type)
		}
		seen[svc.Type] = true
	}
	return nil
}

// Create заводит новый заказ: id, дата открытия, статус aberta,
// подзадачи услуг из каталога.
func (s *Service) Create(ctx context.Context, o storage.ServiceOrder) (OrderView, error) {
	const op = "service.orders.Create"

	if o.ClientID == "" {
		return OrderView{}, fmt.Errorf("%s: %w: client_id is required", op, ErrInvalid)
	}
	if err := validateServices(o.Services); err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.Priority == "" {
		o.Priority = storage.PriorityNormal
	}
	if !o.Priority.Valid() {
		return OrderView{}, fmt.Errorf("%s: %w: priority %q", op, ErrInvalid, o.Priority)
	}

	now := s.now().UTC()
	o.ID = uuid.NewString()
	o.Status = storage.OrderOpen
	if o.OpenedAt.IsZero() {
		o.OpenedAt = now
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	o.Stages = make(map[storage.Stage]storage.StageProgress)
	for _, stage := range workflow.ApplicableStages(o.Services) {
		o.Stages[stage] = storage.StageProgress{}
	}

	for i := range o.Services {
		svc := &o.Services[i]
		svc.Completed = false
		svc.StartedAt, svc.CompletedAt = nil, nil
		if len(svc.SubActivities) > 0 {
			for j := range svc.SubActivities {
				if svc.SubActivities[j].ID == "" {
					svc.SubActivities[j].ID = uuid.NewString()
				}
			}
			continue
		}
		tpls, err := s.catalog.ListSubActivities(ctx, svc.Type)
		if err != nil {
			return OrderView{}, fmt.Errorf("%s: load sub-activities for %s: %w", op, svc.Type, err)
		}
		svc.SubActivities = make([]storage.SubActivity, 0, len(tpls))
		for _, tpl := range tpls {
			svc.SubActivities = append(svc.SubActivities, storage.SubActivity{
				ID:               tpl.ID,
				Name:             tpl.Name,
				EstimatedMinutes: tpl.EstimatedMinutes,
			})
		}
	}

	if err := s.orders.SaveOrder(ctx, o); err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}

	v := s.view(o)
	s.publish(ctx, events.TypeOrderUpdated, v)
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (OrderView, error) {
	const op = "service.orders.Get"

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(*o), nil
}

func (s *Service) List(ctx context.Context, filter storage.OrderFilter) ([]OrderView, error) {
	const op = "service.orders.List"

	list, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views := make([]OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, s.view(o))
	}
	return views, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "service.orders.Delete"

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, empID := range assignedEmployees(*o) {
		s.release(ctx, empID, id)
	}

	if s.timers != nil {
		if _, err := s.timers.PurgeOrder(ctx, id); err != nil {
			s.log.Warn("failed to purge order timers", slog.String("order_id", id), slog.String("error", err.Error()))
		}
	}

	s.publish(ctx, events.TypeOrderDeleted, s.view(*o))
	return nil
}

// SetStatus ставит ручной статус (entregue, cancelada). Пустой статус
// возвращает заказ к вычисляемому.
func (s *Service) SetStatus(ctx context.Context, id string, status storage.OrderStatus) (OrderView, error) {
	const op = "service.orders.SetStatus"

	if status != "" && !status.Manual() {
		return OrderView{}, fmt.Errorf("%s: %w: status %q cannot be set manually", op, ErrInvalid, status)
	}

	return s.mutate(ctx, op, id, func(o *storage.ServiceOrder) error {
		if status == "" {
			o.Status = storage.OrderOpen
			return nil
		}
		o.Status = status
		return nil
	})
}

// mutate читает заказ, применяет fn, пересчитывает статус и сохраняет.
// При ошибке fn ничего не пишется.
func (s *Service) mutate(ctx context.Context, op, id string, fn func(o *storage.ServiceOrder) error) (OrderView, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.Stages == nil {
		o.Stages = make(map[storage.Stage]storage.StageProgress)
	}

	if err := fn(o); err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}

	o.Status = workflow.DeriveStatus(*o)
	o.UpdatedAt = s.now().UTC()

	if err := s.orders.UpdateOrderWorkflow(ctx, *o); err != nil {
		return OrderView{}, fmt.Errorf("%s: %w", op, err)
	}

	v := s.view(*o)
	s.publish(ctx, events.TypeOrderUpdated, v)
	return v, nil
}

func (s *Service) release(ctx context.Context, employeeID, orderID string) {
	if _, err := s.occupancy.Release(ctx, employeeID, orderID); err != nil {
		s.log.Error("failed to release employee",
			slog.String("employee_id", employeeID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
}

func assignedEmployees(o storage.ServiceOrder) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, stage := range workflow.ApplicableStages(o.Services) {
		add(o.Stages[stage].EmployeeID)
	}
	for _, svc := range o.Services {
		add(svc.EmployeeID)
	}
	return ids
}
