package rest

import "encoding/json"

// Codec encodes request payloads and decodes response bodies. The core treats
// it as opaque; the default is JSON.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// DefaultCodec is the JSON codec used when a client is built without an
// explicit one.
var DefaultCodec Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
