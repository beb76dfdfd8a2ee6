package server

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// PlayerID 表示玩家唯一标识（注册时生成，与连接对象无关）
type PlayerID string

// NewPlayerID 生成新的玩家标识
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

// Direction 移动方向
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// ParseDirection 解析客户端发来的方向字符串，无法识别时返回 DirNone
func ParseDirection(s string) Direction {
	switch s {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// PlayerState 为广播给客户端的公开状态（不含标识与连接）
type PlayerState struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Color string  `json:"color" msgpack:"color"`
	Name  string  `json:"name" msgpack:"name"`
	Score int64   `json:"score" msgpack:"score"`
}

// Player 竞技场内的玩家实体
type Player struct {
	ID    PlayerID
	Name  string
	Color string
	X     float64
	Y     float64
	Score int64

	seq  uint64   // 注册顺序，快照按此排序
	Conn Outbound // 网络连接的发送端
}

// State 投影为公开状态
func (p *Player) State() PlayerState {
	return PlayerState{X: p.X, Y: p.Y, Color: p.Color, Name: p.Name, Score: p.Score}
}

// RandomColor 在 RGB 立方体上均匀取色，形如 #1a2b3c
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// ApplyMove 执行一次移动并进行越界裁剪
func ApplyMove(p *Player, dir Direction, cfg Config) {
	switch dir {
	case DirUp:
		p.Y -= cfg.Step
	case DirDown:
		p.Y += cfg.Step
	case DirLeft:
		p.X -= cfg.Step
	case DirRight:
		p.X += cfg.Step
	default:
		// no-op
	}
	p.X = clamp(p.X, 0, cfg.MaxX())
	p.Y = clamp(p.Y, 0, cfg.MaxY())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
