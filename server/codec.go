package server

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding 连接使用的出站编码
type Encoding int

const (
	EncodingJSON    Encoding = iota // 文本帧
	EncodingMsgpack                 // 二进制帧
)

// ParseEncoding 解析 ?encoding= 参数，默认 JSON
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return EncodingJSON, nil
	case "msgpack":
		return EncodingMsgpack, nil
	default:
		return EncodingJSON, fmt.Errorf("unknown encoding %q", s)
	}
}

func (e Encoding) String() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// WorldSnapshot 每次广播的完整世界视图
type WorldSnapshot struct {
	Players []PlayerState `json:"players" msgpack:"players"`
	Enemies []Enemy       `json:"enemies" msgpack:"enemies"`
}

// RedirectMessage 碰撞后发出的终止通知
type RedirectMessage struct {
	Action string `json:"action" msgpack:"action"`
	URL    string `json:"url" msgpack:"url"`
}

// Encode 按连接编码序列化出站消息
func Encode(enc Encoding, v any) ([]byte, error) {
	switch enc {
	case EncodingMsgpack:
		return msgpack.Marshal(v)
	default:
		return json.Marshal(v)
	}
}

// encodeCache 同一快照对每种编码只序列化一次
type encodeCache struct {
	v   any
	out map[Encoding][]byte
}

func newEncodeCache(v any) *encodeCache {
	return &encodeCache{v: v, out: make(map[Encoding][]byte, 2)}
}

func (c *encodeCache) get(enc Encoding) ([]byte, error) {
	if b, ok := c.out[enc]; ok {
		return b, nil
	}
	b, err := Encode(enc, c.v)
	if err != nil {
		return nil, err
	}
	c.out[enc] = b
	return b, nil
}
