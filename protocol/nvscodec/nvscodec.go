// Package nvscodec encodes and decodes the typed values stored in an
// ODKey device's NVS key/value store. All multi-byte integers are
// little-endian; signed integers use two's complement in their
// declared width.
package nvscodec

import (
	"fmt"

	"odkey/protocol"
)

// EncodeUint encodes an unsigned integer as the given type's raw
// bytes. typ must be one of NVSTypeU8/U16/U32/U64.
func EncodeUint(typ protocol.NVSType, value uint64) ([]byte, error) {
	switch typ {
	case protocol.NVSTypeU8:
		return []byte{byte(value)}, nil
	case protocol.NVSTypeU16:
		return []byte{byte(value), byte(value >> 8)}, nil
	case protocol.NVSTypeU32:
		return []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)}, nil
	case protocol.NVSTypeU64:
		b := make([]byte, 8)
		for i := 0; i < 8; i++ {
			b[i] = byte(value >> (8 * i))
		}
		return b, nil
	default:
		return nil, fmt.Errorf("nvscodec: %s is not an unsigned integer type", typ)
	}
}

// EncodeInt encodes a signed integer as the given type's raw two's
// complement bytes. typ must be one of NVSTypeI8/I16/I32/I64.
func EncodeInt(typ protocol.NVSType, value int64) ([]byte, error) {
	switch typ {
	case protocol.NVSTypeI8:
		return EncodeUint(protocol.NVSTypeU8, uint64(uint8(int8(value))))
	case protocol.NVSTypeI16:
		return EncodeUint(protocol.NVSTypeU16, uint64(uint16(int16(value))))
	case protocol.NVSTypeI32:
		return EncodeUint(protocol.NVSTypeU32, uint64(uint32(int32(value))))
	case protocol.NVSTypeI64:
		return EncodeUint(protocol.NVSTypeU64, uint64(value))
	default:
		return nil, fmt.Errorf("nvscodec: %s is not a signed integer type", typ)
	}
}

// EncodeString encodes a string as UTF-8 bytes plus a trailing NUL,
// the format the device expects for NVSTypeString.
func EncodeString(value string) ([]byte, error) {
	b := append([]byte(value), 0x00)
	if len(b) > protocol.NVSMaxPayloadLength {
		return nil, fmt.Errorf("nvscodec: string value too large (max %d bytes)", protocol.NVSMaxPayloadLength)
	}
	return b, nil
}

// EncodeBlob validates raw bytes against the payload size limit;
// blobs are stored as-is with no framing of their own.
func EncodeBlob(value []byte) ([]byte, error) {
	if len(value) > protocol.NVSMaxPayloadLength {
		return nil, fmt.Errorf("nvscodec: blob value too large (max %d bytes)", protocol.NVSMaxPayloadLength)
	}
	return value, nil
}

// DecodeUint reads an unsigned integer of the given type from its raw
// little-endian bytes.
func DecodeUint(typ protocol.NVSType, raw []byte) (uint64, error) {
	width, err := widthOf(typ)
	if err != nil {
		return 0, err
	}
	if len(raw) != width {
		return 0, fmt.Errorf("nvscodec: expected %d bytes for %s, got %d", width, typ, len(raw))
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(raw[i]) << (8 * i)
	}
	return v, nil
}

// DecodeInt reads a signed integer of the given type from its raw
// two's complement little-endian bytes.
func DecodeInt(typ protocol.NVSType, raw []byte) (int64, error) {
	switch typ {
	case protocol.NVSTypeI8:
		v, err := DecodeUint(protocol.NVSTypeU8, raw)
		return int64(int8(v)), err
	case protocol.NVSTypeI16:
		v, err := DecodeUint(protocol.NVSTypeU16, raw)
		return int64(int16(v)), err
	case protocol.NVSTypeI32:
		v, err := DecodeUint(protocol.NVSTypeU32, raw)
		return int64(int32(v)), err
	case protocol.NVSTypeI64:
		v, err := DecodeUint(protocol.NVSTypeU64, raw)
		return int64(v), err
	default:
		return 0, fmt.Errorf("nvscodec: %s is not a signed integer type", typ)
	}
}

// DecodeString strips the trailing NUL terminator (if present) and
// returns the UTF-8 string it framed.
func DecodeString(raw []byte) string {
	if len(raw) > 0 && raw[len(raw)-1] == 0x00 {
		raw = raw[:len(raw)-1]
	}
	return string(raw)
}

func widthOf(typ protocol.NVSType) (int, error) {
	switch typ {
	case protocol.NVSTypeU8, protocol.NVSTypeI8:
		return 1, nil
	case protocol.NVSTypeU16, protocol.NVSTypeI16:
		return 2, nil
	case protocol.NVSTypeU32, protocol.NVSTypeI32:
		return 4, nil
	case protocol.NVSTypeU64, protocol.NVSTypeI64:
		return 8, nil
	default:
		return 0, fmt.Errorf("nvscodec: %s is not an integer type", typ)
	}
}
