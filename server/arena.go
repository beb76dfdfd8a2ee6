package server

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnknownPlayer 玩家已不在竞技场中（碰撞或断线后被移除）
var ErrUnknownPlayer = errors.New("player not registered")

// Outbound 连接的发送端，广播只依赖这个接口
type Outbound interface {
	Encoding() Encoding
	Send(payload []byte) error
}

// Arena 竞技场世界：玩家注册表 + 敌人，单把读写锁保护
type Arena struct {
	cfg Config

	mu      sync.RWMutex
	players map[PlayerID]*Player
	enemies []Enemy
	nextSeq uint64

	metrics *ArenaMetrics
}

// NewArena 创建竞技场，敌人使用开局配置
func NewArena(cfg Config) *Arena {
	return &Arena{
		cfg:     cfg,
		players: make(map[PlayerID]*Player),
		enemies: DefaultEnemies(),
		metrics: &ArenaMetrics{},
	}
}

// Config 当前规则
func (a *Arena) Config() Config { return a.cfg }

// Metrics 运行指标
func (a *Arena) Metrics() *ArenaMetrics { return a.metrics }

// Register 创建新玩家并绑定发送端，返回其公开状态的副本
func (a *Arena) Register(name string, conn Outbound) Player {
	p := &Player{
		ID:    NewPlayerID(),
		Name:  name,
		Color: RandomColor(),
		X:     a.cfg.SpawnX,
		Y:     a.cfg.SpawnY,
		Conn:  conn,
	}
	a.mu.Lock()
	a.nextSeq++
	p.seq = a.nextSeq
	a.players[p.ID] = p
	a.mu.Unlock()

	a.metrics.IncConnects()
	return *p
}

// Unregister 移除玩家；幂等，不存在时返回 false
func (a *Arena) Unregister(id PlayerID) bool {
	a.mu.Lock()
	_, ok := a.players[id]
	delete(a.players, id)
	a.mu.Unlock()

	if ok {
		a.metrics.IncDisconnects()
	}
	return ok
}

// Get 返回玩家的副本
func (a *Arena) Get(id PlayerID) (Player, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Players 按注册顺序返回所有玩家的副本
func (a *Arena) Players() []Player {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.playersLocked()
}

// Len 在线玩家数
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.players)
}

// Enemies 敌人的副本
func (a *Arena) Enemies() []Enemy {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Enemy(nil), a.enemies...)
}

// MoveResult 一次移动的结果
type MoveResult struct {
	State    PlayerState
	Collided bool
}

// Move 执行一条移动指令并做碰撞检测；碰撞时玩家在同一临界区内被移出注册表
func (a *Arena) Move(id PlayerID, dir Direction) (MoveResult, error) {
	a.mu.Lock()
	p, ok := a.players[id]
	if !ok {
		a.mu.Unlock()
		return MoveResult{}, ErrUnknownPlayer
	}
	ApplyMove(p, dir, a.cfg)
	res := MoveResult{State: p.State()}
	if collidesAny(p.X, p.Y, a.enemies, a.cfg) {
		res.Collided = true
		delete(a.players, id)
	}
	a.mu.Unlock()

	if dir == DirNone {
		a.metrics.IncIgnored()
	} else {
		a.metrics.IncMoves()
	}
	if res.Collided {
		a.metrics.IncCollisions()
		a.metrics.IncDisconnects()
	}
	return res, nil
}

// AddScore 给仍在线的玩家加分；玩家已移除时返回 false
func (a *Arena) AddScore(id PlayerID, n int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.players[id]
	if !ok {
		return false
	}
	p.Score += n
	return true
}

// StepEnemies 推进所有敌人一步
func (a *Arena) StepEnemies() {
	a.mu.Lock()
	for i := range a.enemies {
		a.enemies[i].Advance(a.cfg)
	}
	a.mu.Unlock()
}

// Snapshot 构建当前世界快照
func (a *Arena) Snapshot() WorldSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap, _ := a.snapshotLocked()
	return snap
}

// snapshotLocked 在持锁状态下同时取出快照与接收方，保证二者一致
func (a *Arena) snapshotLocked() (WorldSnapshot, []Outbound) {
	players := a.playersLocked()
	snap := WorldSnapshot{
		Players: make([]PlayerState, 0, len(players)),
		Enemies: append(make([]Enemy, 0, len(a.enemies)), a.enemies...),
	}
	conns := make([]Outbound, 0, len(players))
	for i := range players {
		snap.Players = append(snap.Players, players[i].State())
		if players[i].Conn != nil {
			conns = append(conns, players[i].Conn)
		}
	}
	return snap, conns
}

func (a *Arena) playersLocked() []Player {
	out := make([]Player, 0, len(a.players))
	for _, p := range a.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
