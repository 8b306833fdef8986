package events

import (
	"context"
	"time"

	"retifica/internal/storage"
)

const (
	TypeOrderUpdated    = "order.updated"
	TypeOrderDeleted    = "order.deleted"
	TypeEmployeeUpdated = "employee.updated"
)

// Event: уведомление об изменении документа. Получатели перечитывают
// документ сами, поэтому в теле только идентификаторы и итог.
type Event struct {
	Type       string              `json:"type"`
	OrderID    string              `json:"order_id,omitempty"`
	EmployeeID string              `json:"employee_id,omitempty"`
	Status     storage.OrderStatus `json:"status,omitempty"`
	Progress   int                 `json:"progress"`
	At         time.Time           `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
