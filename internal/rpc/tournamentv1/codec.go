package tournamentv1

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec replaces connect's protobuf-backed JSON codec so plain Go
// structs can be used as messages.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
