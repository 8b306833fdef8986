package timer

import (
	"context"
	"time"
)

// Ticker раз в interval перечитывает таймер и публикует снимок, пока таймер идёт.
type Ticker struct {
	svc      *Service
	interval time.Duration
}

func NewTicker(svc *Service, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{svc: svc, interval: interval}
}

// Run блокируется до остановки таймера, отмены ctx или ошибки publish.
// Последний снимок (пауза/финиш) публикуется перед выходом.
func (t *Ticker) Run(ctx context.Context, key Key, publish func(Snapshot) error) error {
	snap, err := t.svc.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := publish(snap); err != nil {
		return err
	}
	if snap.Status != StatusRunning {
		return nil
	}

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			snap, err := t.svc.Get(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := publish(snap); err != nil {
				return err
			}
			if snap.Status != StatusRunning {
				return nil
			}
		}
	}
}
