package workflow

import (
	"math"

	"retifica/internal/storage"
)

const (
	stageWeight   = 2
	serviceWeight = 1
)

// Progress считает процент готовности заказа (0..100).
// Этап весит 2 очка, услуга 1. В расчёт идут только нужные этапы и все услуги заказа.
func Progress(order storage.ServiceOrder) int {
	var totalStages, doneStages int
	for _, stage := range ApplicableStages(order.Services) {
		totalStages++
		if order.Stages[stage].Completed {
			doneStages++
		}
	}

	totalServices := len(order.Services)
	doneServices := 0
	for _, s := range order.Services {
		if s.Completed {
			doneServices++
		}
	}

	totalPoints := totalStages*stageWeight + totalServices*serviceWeight
	if totalPoints == 0 {
		return 0
	}
	earned := doneStages*stageWeight + doneServices*serviceWeight

	return int(math.Round(float64(earned) / float64(totalPoints) * 100))
}

// DeriveStatus пересчитывает статус заказа по флагам этапов и услуг.
// Ручные статусы (entregue, cancelada) не трогаем.
func DeriveStatus(order storage.ServiceOrder) storage.OrderStatus {
	if order.Status.Manual() {
		return order.Status
	}
	if Progress(order) == 100 {
		return storage.OrderDone
	}
	for _, sp := range order.Stages {
		if sp.Started || sp.Completed {
			return storage.OrderInProgress
		}
	}
	for _, s := range order.Services {
		if s.StartedAt != nil || s.Completed {
			return storage.OrderInProgress
		}
	}
	return storage.OrderOpen
}
