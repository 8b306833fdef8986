package timer

import (
	"errors"
	"fmt"
	"time"

	"retifica/internal/storage"
)

var ErrInvalidTransition = errors.New("invalid timer transition")

type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

func StatusOf(st storage.TimerState) Status {
	switch {
	case st.IsRunning && st.IsPaused:
		return StatusPaused
	case st.IsRunning:
		return StatusRunning
	case st.Finished:
		return StatusFinished
	default:
		return StatusIdle
	}
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Start: idle/finished -> running.
func Start(st *storage.TimerState, now time.Time) error {
	switch StatusOf(*st) {
	case StatusIdle, StatusFinished:
	default:
		return fmt.Errorf("start from %s: %w", StatusOf(*st), ErrInvalidTransition)
	}

	*st = storage.TimerState{
		IsRunning: true,
		StartTime: millis(now),
	}
	return nil
}

// Pause: running -> paused. Открываем интервал паузы.
func Pause(st *storage.TimerState, now time.Time) error {
	if StatusOf(*st) != StatusRunning {
		return fmt.Errorf("pause from %s: %w", StatusOf(*st), ErrInvalidTransition)
	}

	st.ElapsedTime = int64(Elapsed(*st, now) / time.Second)
	st.IsPaused = true
	st.PauseTime = millis(now)
	st.Pauses = append(st.Pauses, storage.PauseInterval{Start: st.PauseTime})
	return nil
}

// Resume: paused -> running. Длительность паузы уходит в TotalPausedTime,
// StartTime не сдвигаем, иначе пауза вычтется дважды.
func Resume(st *storage.TimerState, now time.Time) error {
	if StatusOf(*st) != StatusPaused {
		return fmt.Errorf("resume from %s: %w", StatusOf(*st), ErrInvalidTransition)
	}

	nowMs := millis(now)
	if gap := nowMs - st.PauseTime; gap > 0 {
		st.TotalPausedTime += gap
	}
	if n := len(st.Pauses); n > 0 && st.Pauses[n-1].End == 0 {
		st.Pauses[n-1].End = nowMs
	}
	st.IsPaused = false
	st.PauseTime = 0
	return nil
}

// Finish: running/paused -> finished. Возвращает итоговое время в секундах.
func Finish(st *storage.TimerState, now time.Time) (int64, error) {
	switch StatusOf(*st) {
	case StatusRunning, StatusPaused:
	default:
		return 0, fmt.Errorf("finish from %s: %w", StatusOf(*st), ErrInvalidTransition)
	}

	total := int64(Elapsed(*st, now) / time.Second)
	if n := len(st.Pauses); n > 0 && st.Pauses[n-1].End == 0 {
		st.Pauses[n-1].End = millis(now)
	}

	*st = storage.TimerState{
		Finished:  true,
		TotalTime: total,
		Pauses:    st.Pauses,
	}
	return total, nil
}

// Elapsed: время работы без пауз.
func Elapsed(st storage.TimerState, now time.Time) time.Duration {
	var ms int64
	switch StatusOf(st) {
	case StatusRunning:
		ms = millis(now) - st.StartTime - st.TotalPausedTime
	case StatusPaused:
		ms = st.PauseTime - st.StartTime - st.TotalPausedTime
	default:
		return 0
	}
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// FormatHMS форматирует секунды как HH:MM:SS.
func FormatHMS(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
