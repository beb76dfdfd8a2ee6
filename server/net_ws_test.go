package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// startTestServer 启动不带敌人推进循环的测试服务，敌人保持在初始位置
func startTestServer(t *testing.T) (*Arena, *httptest.Server, string) {
	t.Helper()
	arena := NewArena(DefaultConfig())
	srv := httptest.NewServer(SetupRoutes(arena, t.TempDir()))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/"
	return arena, srv, wsURL
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readRaw(t *testing.T, conn *websocket.Conn) (int, []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	return mt, raw
}

func readSnapshot(t *testing.T, conn *websocket.Conn) WorldSnapshot {
	t.Helper()
	_, raw := readRaw(t, conn)
	return decodeSnapshot(t, raw)
}

func sendDirection(t *testing.T, conn *websocket.Conn, dir string) {
	t.Helper()
	raw, _ := json.Marshal(InputMessage{Direction: dir})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

func TestWSInitialSnapshot(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Ava")

	snap := readSnapshot(t, conn)
	if len(snap.Players) != 1 {
		t.Fatalf("players = %+v", snap.Players)
	}
	p := snap.Players[0]
	if p.Name != "Ava" || p.X != 100 || p.Y != 100 || p.Score != 0 {
		t.Fatalf("player = %+v", p)
	}
	if !colorRe.MatchString(p.Color) {
		t.Fatalf("color = %q", p.Color)
	}
	want := DefaultEnemies()
	if len(snap.Enemies) != len(want) || snap.Enemies[0] != want[0] || snap.Enemies[1] != want[1] {
		t.Fatalf("enemies = %+v", snap.Enemies)
	}
}

func TestWSMoveRightFiveTimes(t *testing.T) {
	arena, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Ava")
	readSnapshot(t, conn)

	var snap WorldSnapshot
	for i := 0; i < 5; i++ {
		sendDirection(t, conn, "right")
		snap = readSnapshot(t, conn)
		if want := 100 + float64(i+1)*5; snap.Players[0].X != want {
			t.Fatalf("move %d: x = %v, want %v", i, snap.Players[0].X, want)
		}
	}
	if p := snap.Players[0]; p.X != 125 || p.Y != 100 {
		t.Fatalf("final position (%v,%v), want (125,100)", p.X, p.Y)
	}
	if arena.Len() != 1 {
		t.Fatalf("registry len = %d", arena.Len())
	}
}

func TestWSCollisionRedirects(t *testing.T) {
	arena, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Bo")
	readSnapshot(t, conn)

	for i := 0; i < 14; i++ {
		sendDirection(t, conn, "right")
		readSnapshot(t, conn)
	}

	var redirect RedirectMessage
	for i := 0; i < 20; i++ {
		sendDirection(t, conn, "down")
		_, raw := readRaw(t, conn)
		if strings.Contains(string(raw), `"redirect"`) {
			if err := json.Unmarshal(raw, &redirect); err != nil {
				t.Fatal(err)
			}
			break
		}
	}
	if redirect.Action != "redirect" || redirect.URL != "/index.html" {
		t.Fatalf("redirect = %+v", redirect)
	}
	if arena.Len() != 0 {
		t.Fatalf("registry len = %d, want 0", arena.Len())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close after redirect, got %v", err)
	}
}

func TestWSUnknownDirectionStillBroadcasts(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Ava")
	readSnapshot(t, conn)

	sendDirection(t, conn, "diagonal")
	snap := readSnapshot(t, conn)
	if p := snap.Players[0]; p.X != 100 || p.Y != 100 {
		t.Fatalf("position changed to (%v,%v)", p.X, p.Y)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	snap = readSnapshot(t, conn)
	if p := snap.Players[0]; p.X != 100 || p.Y != 100 {
		t.Fatalf("position changed to (%v,%v)", p.X, p.Y)
	}
}

func TestWSTwoClientsShareEnemies(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	a := dialWS(t, wsURL+"a")
	readSnapshot(t, a)
	b := dialWS(t, wsURL+"b")
	readSnapshot(t, b)

	for _, dir := range []string{"right", "down", "left"} {
		sendDirection(t, a, dir)
		_, rawA := readRaw(t, a)
		_, rawB := readRaw(t, b)
		if string(rawA) != string(rawB) {
			t.Fatalf("clients received different payloads:\n%s\n%s", rawA, rawB)
		}
		snap := decodeSnapshot(t, rawA)
		if len(snap.Players) != 2 || len(snap.Enemies) != 2 {
			t.Fatalf("snapshot = %+v", snap)
		}
	}
}

func TestWSDisconnectUnregisters(t *testing.T) {
	arena, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Ava")
	readSnapshot(t, conn)
	if arena.Len() != 1 {
		t.Fatalf("len = %d", arena.Len())
	}
	conn.Close()
	waitFor(t, "unregister", func() bool { return arena.Len() == 0 })
}

func TestWSMsgpackEncoding(t *testing.T) {
	_, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"Mo?encoding=msgpack")

	mt, raw := readRaw(t, conn)
	if mt != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", mt)
	}
	var snap WorldSnapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if len(snap.Players) != 1 || snap.Players[0].Name != "Mo" {
		t.Fatalf("snapshot = %+v", snap)
	}

	cmd, _ := msgpack.Marshal(InputMessage{Direction: "down"})
	if err := conn.WriteMessage(websocket.BinaryMessage, cmd); err != nil {
		t.Fatal(err)
	}
	_, raw = readRaw(t, conn)
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Players[0].Y != 105 {
		t.Fatalf("y = %v, want 105", snap.Players[0].Y)
	}
}

func TestWSRejectsUnknownEncoding(t *testing.T) {
	_, srv, _ := startTestServer(t)
	resp, err := http.Get(srv.URL + "/ws/Ava?encoding=xml")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestClientConnSendAfterClose(t *testing.T) {
	c := &ClientConn{send: make(chan []byte, 1)}
	if err := c.Send([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := c.Send([]byte("b")); err != ErrSendQueueFull {
		t.Fatalf("err = %v, want ErrSendQueueFull", err)
	}
	c.Close()
	c.Close()
	if err := c.Send([]byte("c")); err != ErrConnClosed {
		t.Fatalf("err = %v, want ErrConnClosed", err)
	}
}
