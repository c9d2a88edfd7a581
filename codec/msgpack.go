package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values with vmihailenco/msgpack/v5. It trades JSON's
// readability for smaller payloads, which matters on cost-charged stores.
// The zero value is ready to use.
//
// Field naming follows `msgpack` struct tags, not `json` ones; tag both
// when a type travels through more than one codec.
type Msgpack[V any] struct{}

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	if err := msgpack.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}
