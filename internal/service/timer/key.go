package timer

import (
	"errors"

	"retifica/internal/storage"
)

var ErrInvalidKey = errors.New("invalid timer key")

// Key адресует таймер: заказ, этап и (необязательно) услуга.
type Key struct {
	OrderID     string              `json:"order_id"`
	Stage       storage.Stage       `json:"stage"`
	ServiceType storage.ServiceType `json:"service_type,omitempty"`
}

// String: ключ хранилища: timer_<orderId>_<stage>[_<serviceType>].
func (k Key) String() string {
	s := "timer_" + k.OrderID + "_" + string(k.Stage)
	if k.ServiceType != storage.ServiceNone {
		s += "_" + string(k.ServiceType)
	}
	return s
}

func (k Key) Validate() error {
	if k.OrderID == "" || !k.Stage.Valid() {
		return ErrInvalidKey
	}
	if k.ServiceType != storage.ServiceNone && !k.ServiceType.Valid() {
		return ErrInvalidKey
	}
	return nil
}
