package workflow

import "retifica/internal/storage"

// RelevantStages отмечает, какие этапы нужны заказу с данным набором услуг.
// Обе инспекции нужны всегда.
func RelevantStages(services []storage.Service) map[storage.Stage]bool {
	present := make(map[storage.ServiceType]bool, len(services))
	for _, s := range services {
		present[s.Type] = true
	}

	out := make(map[storage.Stage]bool, len(registry))
	for _, si := range registry {
		if si.Always() {
			out[si.ID] = true
			continue
		}
		relevant := false
		for _, st := range si.ServiceTypes {
			if present[st] {
				relevant = true
				break
			}
		}
		out[si.ID] = relevant
	}

	return out
}

func IsRelevant(stage storage.Stage, services []storage.Service) bool {
	return RelevantStages(services)[stage]
}

// ApplicableStages: нужные этапы в порядке реестра.
func ApplicableStages(services []storage.Service) []storage.Stage {
	relevant := RelevantStages(services)

	var stages []storage.Stage
	for _, si := range registry {
		if relevant[si.ID] {
			stages = append(stages, si.ID)
		}
	}
	return stages
}
