package wire

import (
	"bytes"
	"testing"
	"time"
)

func mustDecode(t *testing.T, b []byte) (time.Time, []byte) {
	t.Helper()
	exp, p, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return exp, p
}

func TestRoundTripEmptyAndNonEmpty(t *testing.T) {
	deadline := time.Unix(0, time.Now().Add(time.Hour).UnixNano())
	cases := []struct {
		exp     time.Time
		payload []byte
	}{
		{time.Time{}, nil},
		{time.Time{}, []byte{}},
		{deadline, []byte("hello")},
		{deadline, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := Encode(tc.exp, tc.payload)
		exp, p := mustDecode(t, enc)
		if !exp.Equal(tc.exp) {
			t.Fatalf("deadline mismatch: got %v want %v", exp, tc.exp)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := Encode(time.Time{}, []byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, _, err := Decode(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeaders(t *testing.T) {
	enc := Encode(time.Time{}, []byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := Decode(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := Decode(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindEntry + 1
	if _, _, err := Decode(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// truncated
	if _, _, err := Decode(enc[:8]); err == nil {
		t.Fatalf("expected error on truncated input")
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	if Expired(time.Time{}, now) {
		t.Fatalf("zero deadline must never expire")
	}
	if Expired(now.Add(time.Minute), now) {
		t.Fatalf("future deadline reported expired")
	}
	if !Expired(now.Add(-time.Minute), now) {
		t.Fatalf("past deadline not reported expired")
	}
}
