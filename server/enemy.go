package server

import "math"

// Enemy 自主移动的敌人，碰到边界时反转速度分量
type Enemy struct {
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	DX float64 `json:"dx" msgpack:"dx"`
	DY float64 `json:"dy" msgpack:"dy"`
}

// DefaultEnemies 开局的两个敌人
func DefaultEnemies() []Enemy {
	return []Enemy{
		{X: 200, Y: 200, DX: 2, DY: 2},
		{X: 600, Y: 400, DX: -3, DY: -3},
	}
}

// Advance 前进一步；越界判断两个轴各自独立，角落会同时反弹。
// 位置不做裁剪，可能短暂越界一个步长。
func (e *Enemy) Advance(cfg Config) {
	e.X += e.DX
	e.Y += e.DY
	if e.X <= 0 || e.X >= cfg.MaxX() {
		e.DX = -e.DX
	}
	if e.Y <= 0 || e.Y >= cfg.MaxY() {
		e.DY = -e.DY
	}
}

// Collides 玩家视为 20x20 方块（从左上角偏移半边长得到中心），敌人视为半径 10 的点；
// 两轴距离都不超过半径之和即判定碰撞（含边界）。
func Collides(px, py float64, e Enemy, cfg Config) bool {
	r := cfg.PlayerRadius()
	reach := r + cfg.EnemyRadius
	return math.Abs(px+r-e.X) <= reach && math.Abs(py+r-e.Y) <= reach
}

// collidesAny 与任一敌人碰撞
func collidesAny(px, py float64, enemies []Enemy, cfg Config) bool {
	for _, e := range enemies {
		if Collides(px, py, e, cfg) {
			return true
		}
	}
	return false
}
