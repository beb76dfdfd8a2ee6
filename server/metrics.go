package server

import (
	"sync/atomic"
)

// ArenaMetrics 记录竞技场运行期的关键指标（用于监控与调试）
type ArenaMetrics struct {
	TickCount    int64 // 敌人推进次数
	TotalTickNs  int64 // Tick 累计耗时（纳秒）
	Broadcasts   int64 // 广播次数
	SendFailed   int64 // 单个接收方发送失败次数
	MovesApplied int64 // 有效移动指令数
	Ignored      int64 // 无法识别的指令数
	Collisions   int64 // 碰撞淘汰次数
	Connects     int64
	Disconnects  int64
	TickPanics   int64 // Tick 中被恢复的 panic
}

func (m *ArenaMetrics) IncBroadcasts()  { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *ArenaMetrics) IncSendFailed()  { atomic.AddInt64(&m.SendFailed, 1) }
func (m *ArenaMetrics) IncMoves()       { atomic.AddInt64(&m.MovesApplied, 1) }
func (m *ArenaMetrics) IncIgnored()     { atomic.AddInt64(&m.Ignored, 1) }
func (m *ArenaMetrics) IncCollisions()  { atomic.AddInt64(&m.Collisions, 1) }
func (m *ArenaMetrics) IncConnects()    { atomic.AddInt64(&m.Connects, 1) }
func (m *ArenaMetrics) IncDisconnects() { atomic.AddInt64(&m.Disconnects, 1) }
func (m *ArenaMetrics) IncTickPanics()  { atomic.AddInt64(&m.TickPanics, 1) }
func (m *ArenaMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *ArenaMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":    tick,
		"avg_tick_ms":   avgMs,
		"broadcasts":    atomic.LoadInt64(&m.Broadcasts),
		"send_failed":   atomic.LoadInt64(&m.SendFailed),
		"moves_applied": atomic.LoadInt64(&m.MovesApplied),
		"ignored":       atomic.LoadInt64(&m.Ignored),
		"collisions":    atomic.LoadInt64(&m.Collisions),
		"connects":      atomic.LoadInt64(&m.Connects),
		"disconnects":   atomic.LoadInt64(&m.Disconnects),
		"tick_panics":   atomic.LoadInt64(&m.TickPanics),
	}
}
