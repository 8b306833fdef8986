package storage

// SubActivityTemplate: пункт чек-листа из справочника, копируется в заказ при создании.
type SubActivityTemplate struct {
	ID               string      `json:"id"`
	ServiceType      ServiceType `json:"service_type"`
	Name             string      `json:"name"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	SortOrder        int         `json:"sort_order"`
}

type ServiceConfig struct {
	ServiceType ServiceType `json:"service_type"`
	Label       string      `json:"label"`
	IsActive    bool        `json:"is_active"`
}
