package server

import (
	"context"
	"time"
)

// RunSimulator 敌人推进循环：每个 Tick 推进全部敌人后广播一次，直到 ctx 取消
func (a *Arena) RunSimulator(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.EnemyTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			a.tick()
			a.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

// tick 单次推进；任何错误或 panic 只记录日志，不终止循环
func (a *Arena) tick() {
	defer func() {
		if r := recover(); r != nil {
			a.metrics.IncTickPanics()
			Log.Errorf("enemy tick panic: %v", r)
		}
	}()
	a.StepEnemies()
	if _, err := a.Broadcast(); err != nil {
		Log.Errorf("enemy tick broadcast: %v", err)
	}
}
