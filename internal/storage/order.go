package storage

import "time"

type ServiceOrder struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	ClientID  string                  `json:"client_id"`
	MotorID   string                  `json:"motor_id"`
	Services  []Service               `json:"services"`
	Stages    map[Stage]StageProgress `json:"stages"`
	Priority  Priority                `json:"priority"`
	Status    OrderStatus             `json:"status"`
	Notes     string                  `json:"notes"`
	OpenedAt  time.Time               `json:"opened_at"`
	DueAt     *time.Time              `json:"due_at"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Service: работа по одному компоненту двигателя.
type Service struct {
	Type            ServiceType   `json:"type"`
	Completed       bool          `json:"completed"`
	EmployeeID      string        `json:"employee_id,omitempty"`
	EmployeeName    string        `json:"employee_name,omitempty"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	DurationSeconds int64         `json:"duration_seconds"`
	TimerRecorded   bool          `json:"timer_recorded,omitempty"`
	SubActivities   []SubActivity `json:"sub_activities"`
}

type SubActivity struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Completed        bool   `json:"completed"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type StageProgress struct {
	Started         bool       `json:"started"`
	Completed       bool       `json:"completed"`
	EmployeeID      string     `json:"employee_id,omitempty"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	// TimerRecorded: длительность пришла от таймера, а не от оценки по часам.
	TimerRecorded bool `json:"timer_recorded,omitempty"`
}

// Service ищет услугу по типу; возвращает указатель внутрь среза.
func (o *ServiceOrder) Service(t ServiceType) *Service {
	for i := range o.Services {
		if o.Services[i].Type == t {
			return &o.Services[i]
		}
	}
	return nil
}

func (o *ServiceOrder) HasService(t ServiceType) bool {
	return o.Service(t) != nil
}

// Overdue: срок сдачи прошёл, а заказ ещё не закрыт.
func (o *ServiceOrder) Overdue(now time.Time) bool {
	if o.DueAt == nil {
		return false
	}
	switch o.Status {
	case OrderDone, OrderDelivered, OrderCancelled:
		return false
	}
	return now.After(*o.DueAt)
}

type OrderFilter struct {
	Status   []OrderStatus
	ClientID string
	Search   string
	From     time.Time
	To       time.Time
}
