package server

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// InputMessage 入站移动指令
// 示例：{"direction":"up"}
type InputMessage struct {
	Direction string `json:"direction" msgpack:"direction"`
}

// DecodeDirection 解析一条入站消息；格式错误或方向未知一律视为 DirNone
func DecodeDirection(enc Encoding, payload []byte) Direction {
	var im InputMessage
	var err error
	switch enc {
	case EncodingMsgpack:
		err = msgpack.Unmarshal(payload, &im)
	default:
		err = json.Unmarshal(payload, &im)
	}
	if err != nil {
		return DirNone
	}
	return ParseDirection(im.Direction)
}
