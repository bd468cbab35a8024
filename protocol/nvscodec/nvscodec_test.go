package nvscodec

import (
	"testing"

	"odkey/protocol"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestEncodeDecodeUintRoundTrip(t *testing.T) {
	cases := []struct {
		typ   protocol.NVSType
		value uint64
	}{
		{protocol.NVSTypeU8, 0xAB},
		{protocol.NVSTypeU16, 0xBEEF},
		{protocol.NVSTypeU32, 0xDEADBEEF},
		{protocol.NVSTypeU64, 0x0123456789ABCDEF},
	}
	for _, c := range cases {
		raw, err := EncodeUint(c.typ, c.value)
		assert(t, err == nil, "encode %s: unexpected error: %v", c.typ, err)
		got, err := DecodeUint(c.typ, raw)
		assert(t, err == nil, "decode %s: unexpected error: %v", c.typ, err)
		assert(t, got == c.value, "%s round trip: got 0x%X, want 0x%X", c.typ, got, c.value)
	}
}

func TestEncodeUintIsLittleEndian(t *testing.T) {
	raw, err := EncodeUint(protocol.NVSTypeU16, 0x1234)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(raw) == 2 && raw[0] == 0x34 && raw[1] == 0x12, "expected LE bytes [0x34 0x12], got % X", raw)
}

func TestEncodeDecodeIntRoundTrip(t *testing.T) {
	cases := []struct {
		typ   protocol.NVSType
		value int64
	}{
		{protocol.NVSTypeI8, -1},
		{protocol.NVSTypeI8, -128},
		{protocol.NVSTypeI16, -12345},
		{protocol.NVSTypeI32, -2147483648},
		{protocol.NVSTypeI64, -9223372036854775808},
	}
	for _, c := range cases {
		raw, err := EncodeInt(c.typ, c.value)
		assert(t, err == nil, "encode %s: unexpected error: %v", c.typ, err)
		got, err := DecodeInt(c.typ, raw)
		assert(t, err == nil, "decode %s: unexpected error: %v", c.typ, err)
		assert(t, got == c.value, "%s round trip: got %d, want %d", c.typ, got, c.value)
	}
}

func TestEncodeIntTwosComplement(t *testing.T) {
	raw, err := EncodeInt(protocol.NVSTypeI8, -1)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(raw) == 1 && raw[0] == 0xFF, "expected 0xFF for -1 as i8, got % X", raw)
}

func TestEncodeDecodeStringRoundTrip(t *testing.T) {
	raw, err := EncodeString("hello")
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(raw) == 6 && raw[5] == 0x00, "expected trailing NUL, got % X", raw)
	assert(t, DecodeString(raw) == "hello", "got %q", DecodeString(raw))
}

func TestEncodeStringTooLarge(t *testing.T) {
	big := make([]byte, protocol.NVSMaxPayloadLength)
	for i := range big {
		big[i] = 'x'
	}
	_, err := EncodeString(string(big))
	assert(t, err != nil, "expected an error for an oversized string")
}

func TestEncodeBlobPassthrough(t *testing.T) {
	raw, err := EncodeBlob([]byte{0x01, 0x02, 0x03})
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(raw) == 3, "expected blob passed through unchanged, got % X", raw)
}

func TestEncodeBlobTooLarge(t *testing.T) {
	_, err := EncodeBlob(make([]byte, protocol.NVSMaxPayloadLength+1))
	assert(t, err != nil, "expected an error for an oversized blob")
}

func TestDecodeStringWithoutTrailingNUL(t *testing.T) {
	assert(t, DecodeString([]byte("noterm")) == "noterm", "expected passthrough when no NUL present")
}
