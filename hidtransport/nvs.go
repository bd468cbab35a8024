package hidtransport

import (
	"context"
	"encoding/binary"

	"odkey/protocol"
)

// nvsKeyField bytes are key(16)+padding(4), matching the fixed-width
// key field the device's NVS commands all share.
const nvsKeyFieldSize = 20

func encodeKeyField(key string) ([]byte, error) {
	if len(key) > protocol.NVSMaxKeyLength {
		return nil, protocol.NewProtocolError("NVS key too long (max 15 characters)", nil)
	}
	field := make([]byte, nvsKeyFieldSize)
	copy(field, key)
	return field, nil
}

// NVSSet implements protocol.Transport.
func (t *Transport) NVSSet(ctx context.Context, key string, value protocol.NVSValue) error {
	if len(value.Raw) > protocol.NVSMaxPayloadLength {
		return protocol.NewProtocolError("NVS value too large (max 1024 bytes)", nil)
	}

	// SET_START payload: type(1) + length(4) + key(16) + padding(4).
	start := make([]byte, 25)
	start[0] = byte(value.Type)
	binary.LittleEndian.PutUint32(start[1:5], uint32(len(value.Raw)))
	if len(key) > protocol.NVSMaxKeyLength {
		return protocol.NewProtocolError("NVS key too long (max 15 characters)", nil)
	}
	copy(start[5:], key)

	if _, err := t.sendCommand(ctx, protocol.CmdNVSSetStart, start); err != nil {
		return err
	}

	for sent := 0; sent < len(value.Raw); sent += protocol.RawHIDDataPayload {
		end := sent + protocol.RawHIDDataPayload
		if end > len(value.Raw) {
			end = len(value.Raw)
		}
		if _, err := t.sendCommand(ctx, protocol.CmdNVSSetData, value.Raw[sent:end]); err != nil {
			return err
		}
	}

	_, err := t.sendCommand(ctx, protocol.CmdNVSSetFinish, nil)
	return err
}

// NVSGet implements protocol.Transport.
func (t *Transport) NVSGet(ctx context.Context, key string) (protocol.NVSValue, error) {
	keyField, err := encodeKeyField(key)
	if err != nil {
		return protocol.NVSValue{}, err
	}

	resp, err := t.sendCommand(ctx, protocol.CmdNVSGetStart, keyField)
	if err != nil {
		return protocol.NVSValue{}, err
	}
	if len(resp) < 9 {
		return protocol.NVSValue{}, protocol.NewProtocolError("short GET_START response", nil)
	}

	valueType := protocol.NVSType(resp[4])
	size := binary.LittleEndian.Uint32(resp[5:9])

	out := make([]byte, 0, size)

	// First chunk rides along in the GET_START response, 55 bytes
	// after the type/size header.
	const firstChunkCap = 55
	if size > 0 {
		n := int(size)
		if n > firstChunkCap {
			n = firstChunkCap
		}
		if len(resp) >= 9+n {
			out = append(out, resp[9:9+n]...)
		}
	}

	for uint32(len(out)) < size {
		resp, err := t.sendCommand(ctx, protocol.CmdNVSGetData, nil)
		if err != nil {
			return protocol.NVSValue{}, err
		}
		need := int(size) - len(out)
		if need > protocol.RawHIDDataPayload {
			need = protocol.RawHIDDataPayload
		}
		if len(resp) < 4+need {
			return protocol.NVSValue{}, protocol.NewProtocolError("short GET_DATA response", nil)
		}
		out = append(out, resp[4:4+need]...)
	}

	return protocol.NVSValue{Type: valueType, Raw: out}, nil
}

// NVSDelete implements protocol.Transport.
func (t *Transport) NVSDelete(ctx context.Context, key string) error {
	keyField, err := encodeKeyField(key)
	if err != nil {
		return err
	}
	_, err = t.sendCommand(ctx, protocol.CmdNVSDelete, keyField)
	return err
}
