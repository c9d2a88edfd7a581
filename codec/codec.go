// Package codec defines value serialization for omnicache drivers.
// A codec failure on read is treated by the driver as a corrupt entry
// (self-healed and reported as a miss), never as a poisoned hit.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
