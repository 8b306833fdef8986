package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"retifica/internal/service/workflow"
	"retifica/internal/storage"
)

type Storage interface {
	ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error)
	ListEmployees(ctx context.Context, onlyActive bool) ([]storage.Employee, error)
}

type OverdueOrder struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	ClientID string           `json:"client_id"`
	Priority storage.Priority `json:"priority"`
	DueAt    time.Time        `json:"due_at"`
	Progress int              `json:"progress"`
}

type Occupied struct {
	EmployeeID string           `json:"employee_id"`
	Name       string           `json:"name"`
	Activity   storage.Activity `json:"activity"`
	StageName  string           `json:"stage_name"`
}

type Availability struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Inactive  int `json:"inactive"`
}

type Summary struct {
	TotalOrders      int                         `json:"total_orders"`
	ByStatus         map[storage.OrderStatus]int `json:"by_status"`
	AverageProgress  int                         `json:"average_progress"`
	StagesInProgress map[storage.Stage]int       `json:"stages_in_progress"`
	Overdue          []OverdueOrder              `json:"overdue"`
	Employees        Availability                `json:"employees"`
	OccupiedNow      []Occupied                  `json:"occupied_now"`
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func New(storage Storage) *Service {
	return &Service{storage: storage, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	const op = "service.dashboard.Summary"

	var (
		orders    []storage.ServiceOrder
		employees []storage.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.storage.ListOrders(gCtx, storage.OrderFilter{})
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employees, err = s.storage.ListEmployees(gCtx, false)
		if err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	return build(orders, employees, s.now()), nil
}

func build(orders []storage.ServiceOrder, employees []storage.Employee, now time.Time) Summary {
	sum := Summary{
		TotalOrders:      len(orders),
		ByStatus:         make(map[storage.OrderStatus]int),
		StagesInProgress: make(map[storage.Stage]int),
		Overdue:          []OverdueOrder{},
		OccupiedNow:      []Occupied{},
	}

	// средний прогресс считаем только по заказам в работе
	var progressTotal, active int
	for _, o := range orders {
		sum.ByStatus[o.Status]++

		p := workflow.Progress(o)
		if o.Status != storage.OrderCancelled && o.Status != storage.OrderDelivered {
			progressTotal += p
			active++
		}

		for _, stage := range workflow.ApplicableStages(o.Services) {
			sp := o.Stages[stage]
			if sp.Started && !sp.Completed {
				sum.StagesInProgress[stage]++
			}
		}

		if o.Overdue(now) {
			sum.Overdue = append(sum.Overdue, OverdueOrder{
				ID:       o.ID,
				Name:     o.Name,
				ClientID: o.ClientID,
				Priority: o.Priority,
				DueAt:    *o.DueAt,
				Progress: p,
			})
		}
	}
	if active > 0 {
		sum.AverageProgress = int(math.Round(float64(progressTotal) / float64(active)))
	}

	sort.Slice(sum.Overdue, func(i, j int) bool {
		return sum.Overdue[i].DueAt.Before(sum.Overdue[j].DueAt)
	})

	for _, e := range employees {
		switch e.Status {
		case storage.EmployeeAvailable:
			sum.Employees.Available++
		case storage.EmployeeOccupied:
			sum.Employees.Occupied++
			if e.Activity != nil {
				sum.OccupiedNow = append(sum.OccupiedNow, Occupied{
					EmployeeID: e.ID,
					Name:       e.Name,
					Activity:   *e.Activity,
					StageName:  workflow.StageName(e.Activity.Stage),
				})
			}
		case storage.EmployeeInactive:
			sum.Employees.Inactive++
		}
	}

	return sum
}
