package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1MB
)

var (
	// ErrConnClosed 连接已关闭，不再接受发送
	ErrConnClosed = errors.New("connection closed")
	// ErrSendQueueFull 客户端太慢，发送队列已满
	ErrSendQueueFull = errors.New("send queue full")
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws  *websocket.Conn
	enc Encoding

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClientConn(ws *websocket.Conn, enc Encoding, queue int) *ClientConn {
	return &ClientConn{
		ws:   ws,
		enc:  enc,
		send: make(chan []byte, queue),
	}
}

// Encoding 出站编码
func (c *ClientConn) Encoding() Encoding { return c.enc }

// Send 将消息压入发送队列（非阻塞）
func (c *ClientConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- b:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close 关闭发送队列；写协程把队列中剩余消息写完后发送关闭帧并断开
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// markClosed 写协程异常退出后，后续发送直接失败
func (c *ClientConn) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.markClosed()
		_ = c.ws.Close()
	}()

	msgType := websocket.TextMessage
	if c.enc == EncodingMsgpack {
		msgType = websocket.BinaryMessage
	}
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(msgType, msg); err != nil {
				Log.Debugf("ws write: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// receive 阻塞读取下一条入站指令
func (c *ClientConn) receive() (Direction, error) {
	mt, payload, err := c.ws.ReadMessage()
	if err != nil {
		return DirNone, err
	}
	enc := EncodingJSON
	if mt == websocket.BinaryMessage {
		enc = EncodingMsgpack
	}
	return DecodeDirection(enc, payload), nil
}

// Handler WebSocket 接入：/ws/{name}?encoding=json|msgpack
type Handler struct {
	arena    *Arena
	upgrader websocket.Upgrader
}

// NewHandler 绑定竞技场的连接处理器
func NewHandler(arena *Arena) *Handler {
	return &Handler{
		arena: arena,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 演示环境：允许所有来源
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		name = strings.TrimPrefix(r.URL.Path, "/ws/")
	}
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "missing player name", http.StatusBadRequest)
		return
	}
	enc, err := ParseEncoding(r.URL.Query().Get("encoding"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws, enc, h.arena.cfg.SendQueue)
	go client.writePump()
	h.serveSession(client, name)
}

// serveSession 单个连接的生命周期：注册 → 初始快照 → 指令循环 → 清理。
// 任何一步失败都走同一个清理路径。
func (h *Handler) serveSession(c *ClientConn, name string) {
	p := h.arena.Register(name, c)
	lg := Log.With("player", p.ID, "name", name)
	lg.Infof("player connected (encoding=%s)", c.enc)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		h.arena.Unregister(p.ID)
		c.Close()
		lg.Infof("player session ended")
	}()

	if err := h.arena.SendSnapshot(c); err != nil {
		lg.Warnf("initial snapshot: %v", err)
		return
	}
	go h.arena.RunScoring(ctx, p.ID)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		dir, err := c.receive()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lg.Warnf("ws read: %v", err)
			}
			return
		}

		res, err := h.arena.Move(p.ID, dir)
		if err != nil {
			lg.Debugf("move: %v", err)
			return
		}
		if res.Collided {
			lg.Infof("player collided at (%.0f,%.0f) score=%d", res.State.X, res.State.Y, res.State.Score)
			if err := h.sendRedirect(c); err != nil {
				lg.Warnf("redirect: %v", err)
			}
			return
		}

		if _, err := h.arena.Broadcast(); err != nil {
			lg.Errorf("broadcast: %v", err)
		}
	}
}

func (h *Handler) sendRedirect(c *ClientConn) error {
	b, err := Encode(c.enc, RedirectMessage{Action: "redirect", URL: h.arena.cfg.RedirectURL})
	if err != nil {
		return err
	}
	return c.Send(b)
}
