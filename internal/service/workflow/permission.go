package workflow

import "retifica/internal/storage"

// CanAct решает, может ли сотрудник работать на этапе (и, если задан, по услуге).
func CanAct(emp storage.Employee, stage storage.Stage, service storage.ServiceType) bool {
	if emp.Role == storage.RoleAdmin || emp.Role == storage.RoleManager {
		return true
	}

	switch stage {
	case storage.StageWashing:
		return emp.HasSpecialty(string(storage.ServiceWashing))
	case storage.StageInitialInspection, storage.StageFinalInspection:
		if service == storage.ServiceNone {
			return false
		}
		return emp.HasSpecialty(string(service))
	}

	if service != storage.ServiceNone {
		return emp.HasSpecialty(string(service))
	}
	return emp.HasSpecialty(string(stage))
}

// CanReopen: открыть заново завершённую работу может только админ.
func CanReopen(emp storage.Employee) bool {
	return emp.Role == storage.RoleAdmin
}
