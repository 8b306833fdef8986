package storage

import (
	"encoding/json"
	"fmt"
)

// Stage: этап работы над заказом. Набор закрыт.
type Stage string

const (
	StageWashing           Stage = "lavagem"
	StageInitialInspection Stage = "inspecao_inicial"
	StageMachining         Stage = "retifica"
	StageAssembly          Stage = "montagem"
	StageDynamometer       Stage = "dinamometro"
	StageFinalInspection   Stage = "inspecao_final"
)

var allStages = []Stage{
	StageWashing,
	StageInitialInspection,
	StageMachining,
	StageAssembly,
	StageDynamometer,
	StageFinalInspection,
}

// AllStages возвращает этапы в порядке прохождения.
func AllStages() []Stage {
	out := make([]Stage, len(allStages))
	copy(out, allStages)
	return out
}

func (s Stage) Valid() bool {
	for _, st := range allStages {
		if st == s {
			return true
		}
	}
	return false
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !Stage(raw).Valid() {
		return fmt.Errorf("unknown stage %q", raw)
	}
	*s = Stage(raw)
	return nil
}

// UnmarshalText нужен для ключей map[Stage]StageProgress.
func (s *Stage) UnmarshalText(text []byte) error {
	if !Stage(text).Valid() {
		return fmt.Errorf("unknown stage %q", string(text))
	}
	*s = Stage(text)
	return nil
}

// ServiceType: компонент двигателя, над которым выполняется работа.
type ServiceType string

const (
	ServiceNone        ServiceType = ""
	ServiceBlock       ServiceType = "bloco"
	ServiceRod         ServiceType = "biela"
	ServiceHead        ServiceType = "cabecote"
	ServiceCrankshaft  ServiceType = "virabrequim"
	ServiceCamshaft    ServiceType = "comando"
	ServiceAssembly    ServiceType = "montagem"
	ServiceDynamometer ServiceType = "dinamometro"
	ServiceWashing     ServiceType = "lavagem"
)

var allServiceTypes = []ServiceType{
	ServiceBlock,
	ServiceRod,
	ServiceHead,
	ServiceCrankshaft,
	ServiceCamshaft,
	ServiceAssembly,
	ServiceDynamometer,
	ServiceWashing,
}

func AllServiceTypes() []ServiceType {
	out := make([]ServiceType, len(allServiceTypes))
	copy(out, allServiceTypes)
	return out
}

func (t ServiceType) Valid() bool {
	for _, st := range allServiceTypes {
		if st == t {
			return true
		}
	}
	return false
}

// UnmarshalJSON допускает пустую строку: тип услуги часто необязателен.
func (t *ServiceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw != "" && !ServiceType(raw).Valid() {
		return fmt.Errorf("unknown service type %q", raw)
	}
	*t = ServiceType(raw)
	return nil
}

type OrderStatus string

const (
	OrderOpen       OrderStatus = "aberta"
	OrderInProgress OrderStatus = "em_andamento"
	OrderDone       OrderStatus = "concluida"
	OrderDelivered  OrderStatus = "entregue"
	OrderCancelled  OrderStatus = "cancelada"
)

// Manual: статусы, которые выставляются только руками и не пересчитываются.
func (s OrderStatus) Manual() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderInProgress, OrderDone, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "gerente"
	RoleEmployee Role = "funcionario"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type EmployeeStatus string

const (
	EmployeeAvailable EmployeeStatus = "disponivel"
	EmployeeOccupied  EmployeeStatus = "ocupado"
	EmployeeInactive  EmployeeStatus = "inativo"
)

func (s EmployeeStatus) Valid() bool {
	return s == EmployeeAvailable || s == EmployeeOccupied || s == EmployeeInactive
}
