package server

import (
	"context"
	"time"
)

// RunScoring 计分协程：每个计分周期给玩家加 1 分。
// 玩家被移出注册表后在下一个周期自行退出；处理协程结束时也会取消 ctx。
func (a *Arena) RunScoring(ctx context.Context, id PlayerID) {
	ticker := time.NewTicker(a.cfg.ScoreTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.AddScore(id, 1) {
				return
			}
		}
	}
}
