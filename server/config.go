package server

import "time"

// Config 竞技场的全部规则常量（画布尺寸、步长、Tick 频率等）
type Config struct {
	Width       float64 // 画布宽度
	Height      float64 // 画布高度
	PlayerSize  float64 // 玩家方块边长
	EnemyRadius float64 // 敌人碰撞半径
	Step        float64 // 每条移动指令的步长

	SpawnX float64
	SpawnY float64

	EnemyTick time.Duration // 敌人推进周期（约 60Hz）
	ScoreTick time.Duration // 计分周期

	RedirectURL string // 碰撞后通知客户端跳转的地址
	SendQueue   int    // 每个连接的发送队列容量
}

// DefaultConfig 返回 800x600 画布的默认规则
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		PlayerSize:  20,
		EnemyRadius: 10,
		Step:        5,
		SpawnX:      100,
		SpawnY:      100,
		EnemyTick:   16 * time.Millisecond,
		ScoreTick:   time.Second,
		RedirectURL: "/index.html",
		SendQueue:   64,
	}
}

// MaxX 玩家 x 坐标上限（画布宽度减去玩家宽度）
func (c Config) MaxX() float64 { return c.Width - c.PlayerSize }

// MaxY 玩家 y 坐标上限
func (c Config) MaxY() float64 { return c.Height - c.PlayerSize }

// PlayerRadius 玩家方块的半边长
func (c Config) PlayerRadius() float64 { return c.PlayerSize / 2 }
