package server

// Broadcast 将当前世界状态广播给所有玩家。
// 快照每种编码只序列化一次；单个接收方发送失败只记录日志，不影响其他接收方，
// 也不会在这里把该玩家移出注册表（由该连接自己的处理协程负责）。
// 返回发送失败的接收方数量。
func (a *Arena) Broadcast() (int, error) {
	a.mu.RLock()
	snap, conns := a.snapshotLocked()
	a.mu.RUnlock()

	cache := newEncodeCache(snap)
	failed := 0
	for _, c := range conns {
		b, err := cache.get(c.Encoding())
		if err != nil {
			return failed, err
		}
		if err := c.Send(b); err != nil {
			failed++
			a.metrics.IncSendFailed()
			Log.Warnf("broadcast send failed: %v", err)
		}
	}
	a.metrics.IncBroadcasts()
	return failed, nil
}

// SendSnapshot 只给单个连接发送当前世界状态（连接建立时使用）
func (a *Arena) SendSnapshot(conn Outbound) error {
	b, err := Encode(conn.Encoding(), a.Snapshot())
	if err != nil {
		return err
	}
	return conn.Send(b)
}
