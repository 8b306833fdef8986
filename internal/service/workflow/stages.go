package workflow

import "retifica/internal/storage"

// StageInfo описывает этап: отображаемое имя и услуги, к которым он относится.
// Пустой ServiceTypes означает, что этап нужен всегда.
type StageInfo struct {
	ID           storage.Stage         `json:"id"`
	Name         string                `json:"name"`
	ServiceTypes []storage.ServiceType `json:"service_types"`
}

// Always: этап не зависит от состава услуг.
func (si StageInfo) Always() bool {
	return len(si.ServiceTypes) == 0
}

var registry = []StageInfo{
	{ID: storage.StageWashing, Name: "Lavagem", ServiceTypes: []storage.ServiceType{storage.ServiceWashing}},
	{ID: storage.StageInitialInspection, Name: "Inspeção Inicial"},
	{ID: storage.StageMachining, Name: "Retífica", ServiceTypes: []storage.ServiceType{
		storage.ServiceBlock,
		storage.ServiceRod,
		storage.ServiceHead,
		storage.ServiceCrankshaft,
		storage.ServiceCamshaft,
	}},
	{ID: storage.StageAssembly, Name: "Montagem", ServiceTypes: []storage.ServiceType{storage.ServiceAssembly}},
	{ID: storage.StageDynamometer, Name: "Dinamômetro", ServiceTypes: []storage.ServiceType{storage.ServiceDynamometer}},
	{ID: storage.StageFinalInspection, Name: "Inspeção Final"},
}

// Stages возвращает копию реестра в порядке прохождения этапов.
func Stages() []StageInfo {
	out := make([]StageInfo, len(registry))
	copy(out, registry)
	return out
}

func Lookup(stage storage.Stage) (StageInfo, bool) {
	for _, si := range registry {
		if si.ID == stage {
			return si, true
		}
	}
	return StageInfo{}, false
}

// StageName: отображаемое имя, для неизвестного этапа возвращается сам id.
func StageName(stage storage.Stage) string {
	if si, ok := Lookup(stage); ok {
		return si.Name
	}
	return string(stage)
}

// StageForService: этап, в рамках которого выполняется услуга.
func StageForService(t storage.ServiceType) (storage.Stage, bool) {
	for _, si := range registry {
		for _, st := range si.ServiceTypes {
			if st == t {
				return si.ID, true
			}
		}
	}
	return "", false
}
