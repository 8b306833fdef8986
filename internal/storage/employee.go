package storage

import "time"

type Employee struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Role        Role           `json:"role"`
	Specialties []string       `json:"specialties"`
	Status      EmployeeStatus `json:"status"`
	Activity    *Activity      `json:"activity"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Activity: чем сотрудник занят прямо сейчас.
type Activity struct {
	OrderID     string      `json:"order_id"`
	Stage       Stage       `json:"stage"`
	ServiceType ServiceType `json:"service_type,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
}

func (e *Employee) HasSpecialty(s string) bool {
	for _, sp := range e.Specialties {
		if sp == s {
			return true
		}
	}
	return false
}
