package cache

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes a snapshot value for storage and decodes it on the way back.
// The zero configuration uses JSON so that the cached bytes are the literal
// response payload; msgpack trades that readability for size.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default snapshot encoding.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// MsgpackCodec is a compact alternative for deployments where snapshot size
// dominates cache round-trip cost.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// CodecByName resolves a codec from configuration. Unknown names fall back
// to JSON; config validation rejects them before this point in normal wiring.
func CodecByName(name string) Codec {
	switch name {
	case "msgpack":
		return MsgpackCodec{}
	default:
		return JSONCodec{}
	}
}
