package codec

import "fmt"

// LimitCodec caps the payload length Decode will accept before handing the
// bytes to the wrapped codec. On a shared store any client can write under
// your keys; the cap keeps one oversized entry from triggering an unbounded
// decode. MaxDecode <= 0 disables the check.
//
// Encode passes through untouched - the cap guards reads, not writes.
type LimitCodec[V any] struct {
	Inner     Codec[V] // required
	MaxDecode int      // max accepted payload length in bytes
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
