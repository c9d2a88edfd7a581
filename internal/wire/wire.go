// Package wire frames values for stores that cannot carry per-entry
// metadata themselves. BigCache, for example, only has a global life
// window, so the entry deadline travels inside the stored bytes and is
// checked on read.
//
// Framing is strict: bad magic, unknown version and trailing bytes are all
// rejected as corruption, so foreign writes into an owned keyspace surface
// as ErrCorrupt instead of garbage values.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("omnicache: corrupt entry")
	magic4     = [...]byte{'O', 'M', 'N', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=entry) | expiresAt(u64 be, unix nanos; 0 = none) | vlen(u32 be) | payload(vlen)

// Encode frames payload with an absolute deadline. A zero deadline means
// "no expiry".
func Encode(expiresAt time.Time, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte

	var exp uint64
	if !expiresAt.IsZero() {
		exp = uint64(expiresAt.UnixNano())
	}
	binary.BigEndian.PutUint64(u8[:], exp)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode unframes b. expiresAt is the zero time when the entry never expires.
func Decode(b []byte) (expiresAt time.Time, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return time.Time{}, nil, ErrCorrupt
	}

	off := 6

	exp := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // strict: no trailing bytes
		return time.Time{}, nil, ErrCorrupt
	}

	if exp != 0 {
		expiresAt = time.Unix(0, int64(exp))
	}
	return expiresAt, b[off : off+vlen], nil
}

// Expired reports whether a decoded deadline has passed at now.
func Expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}
