package storage

// TimerState: состояние таймера по (заказ, этап, услуга).
// Время в unix-миллисекундах, elapsed/total в секундах.
type TimerState struct {
	IsRunning       bool            `json:"is_running"`
	IsPaused        bool            `json:"is_paused"`
	Finished        bool            `json:"finished"`
	StartTime       int64           `json:"start_time"`
	PauseTime       int64           `json:"pause_time"`
	TotalPausedTime int64           `json:"total_paused_time"`
	ElapsedTime     int64           `json:"elapsed_time"`
	TotalTime       int64           `json:"total_time"`
	Pauses          []PauseInterval `json:"pauses"`
}

type PauseInterval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end,omitempty"`
}
