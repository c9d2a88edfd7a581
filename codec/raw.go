package codec

// Bytes is an identity codec for []byte values. Encode/Decode return the
// input unchanged. Note an empty slice is a legitimate value: the driver's
// hit flag, not payload length, decides presence.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String is a trivial codec for Go string values. Encode converts to []byte,
// and Decode converts back to string. By convention this assumes UTF-8 and
// performs no validation. An empty string round-trips as a hit.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
