// Package hidtransport implements protocol.Transport over Raw HID,
// using github.com/karalabe/hid to talk to a locally attached ODKey
// device. Every command is a fixed 64-byte report; responses are
// polled for up to 5 seconds.
package hidtransport

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/karalabe/hid"

	"odkey/protocol"
)

const (
	responseTimeout = 5 * time.Second
	pollInterval    = 10 * time.Millisecond
)

// rawDevice is the subset of *hid.Device this package depends on.
// Tests substitute a fake that never touches real hardware.
type rawDevice interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Close() error
}

// Transport is a protocol.Transport backed by a Raw HID connection.
type Transport struct {
	dev rawDevice
}

// Open enumerates attached HID devices looking for one matching vid/pid
// on the ODKey Raw HID interface, and connects to it. It returns
// protocol.ErrDeviceNotFound if no match is found.
func Open(vid, pid uint16) (*Transport, error) {
	infos, err := hid.Enumerate(vid, pid)
	if err != nil {
		return nil, protocol.NewTransportError("enumerating HID devices", err)
	}

	const rawHIDInterface = 1
	for _, info := range infos {
		if info.Interface != rawHIDInterface {
			continue
		}
		dev, err := info.Open()
		if err != nil {
			return nil, protocol.NewTransportError("opening HID device", err)
		}
		return &Transport{dev: dev}, nil
	}

	return nil, protocol.ErrDeviceNotFound
}

// List enumerates every attached device matching vid/pid, regardless
// of interface, for diagnostic listing.
func List(vid, pid uint16) ([]protocol.DeviceInfo, error) {
	infos, err := hid.Enumerate(vid, pid)
	if err != nil {
		return nil, protocol.NewTransportError("enumerating HID devices", err)
	}
	out := make([]protocol.DeviceInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, protocol.DeviceInfo{
			Manufacturer: info.Manufacturer,
			Product:      info.Product,
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
		})
	}
	return out, nil
}

func newFromDevice(dev rawDevice) *Transport {
	return &Transport{dev: dev}
}

// Close releases the underlying HID handle.
func (t *Transport) Close() error {
	return t.dev.Close()
}

// sendCommand writes one 64-byte command frame (command code plus up
// to 60 bytes of data, placed at bytes 4-63 and zero-padded to the end
// of the frame as the firmware expects) and polls for a RESP_OK/RESP_ERROR response frame.
func (t *Transport) sendCommand(ctx context.Context, command byte, data []byte) ([]byte, error) {
	if len(data) > protocol.RawHIDDataPayload {
		return nil, protocol.NewProtocolError("command payload exceeds 60 bytes", nil)
	}

	frame := make([]byte, protocol.RawHIDReportSize)
	frame[0] = command
	copy(frame[4:], data)

	// karalabe/hid devices accept a Report-ID-prefixed write; report
	// ID 0 is stripped by the HID stack before it reaches the wire.
	packet := make([]byte, 1+protocol.RawHIDReportSize)
	copy(packet[1:], frame)

	if _, err := t.dev.Write(packet); err != nil {
		return nil, protocol.NewTransportError("writing HID command", err)
	}

	deadline := time.Now().Add(responseTimeout)
	resp := make([]byte, protocol.RawHIDReportSize)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, protocol.NewTransportError("command canceled", ctx.Err())
		default:
		}

		n, err := t.dev.Read(resp)
		if err != nil {
			return nil, protocol.NewTransportError("reading HID response", err)
		}
		if n > 0 {
			switch resp[0] {
			case protocol.RespOK:
				return resp, nil
			case protocol.RespError:
				return nil, protocol.NewProtocolError("device reported command failure", nil)
			default:
				return nil, protocol.NewProtocolError("unexpected response code from device", nil)
			}
		}

		time.Sleep(pollInterval)
	}

	return nil, protocol.ErrTimeout
}

// UploadProgram implements protocol.Transport.
func (t *Transport) UploadProgram(ctx context.Context, target protocol.Target, bytecode []byte) error {
	maxSize := protocol.ProgramFlashMaxSize
	if target == protocol.TargetRAM {
		maxSize = protocol.ProgramRAMMaxSize
	}
	if len(bytecode) > maxSize {
		return protocol.NewProtocolError("program too large for target", nil)
	}

	start, chunk, finish := protocol.WriteCommands(target)

	sizeData := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizeData, uint32(len(bytecode)))

	if _, err := t.sendCommand(ctx, start, sizeData); err != nil {
		return err
	}

	for sent := 0; sent < len(bytecode); sent += protocol.RawHIDDataPayload {
		end := sent + protocol.RawHIDDataPayload
		if end > len(bytecode) {
			end = len(bytecode)
		}
		if _, err := t.sendCommand(ctx, chunk, bytecode[sent:end]); err != nil {
			return err
		}
	}

	if _, err := t.sendCommand(ctx, finish, sizeData); err != nil {
		return err
	}
	return nil
}

// DownloadProgram implements protocol.Transport.
func (t *Transport) DownloadProgram(ctx context.Context, target protocol.Target) ([]byte, error) {
	start, chunk := protocol.ReadCommands(target)

	resp, err := t.sendCommand(ctx, start, nil)
	if err != nil {
		return nil, err
	}
	if len(resp) < 8 {
		return nil, protocol.NewProtocolError("short READ_START response", nil)
	}
	size := binary.LittleEndian.Uint32(resp[4:8])
	if size == 0 {
		return nil, protocol.ErrNotFound
	}

	out := make([]byte, 0, size)
	for uint32(len(out)) < size {
		resp, err := t.sendCommand(ctx, chunk, nil)
		if err != nil {
			return nil, err
		}
		need := int(size) - len(out)
		if need > protocol.RawHIDDataPayload {
			need = protocol.RawHIDDataPayload
		}
		if len(resp) < 4+need {
			return nil, protocol.NewProtocolError("short READ_CHUNK response", nil)
		}
		out = append(out, resp[4:4+need]...)
	}
	return out, nil
}

// ExecuteProgram implements protocol.Transport.
func (t *Transport) ExecuteProgram(ctx context.Context, target protocol.Target) error {
	_, err := t.sendCommand(ctx, protocol.ExecuteCommand(target), nil)
	return err
}

// DownloadLogs implements protocol.Transport. The Raw HID command
// table has no frame for log streaming; use the HTTP transport.
func (t *Transport) DownloadLogs(ctx context.Context, fn func(protocol.LogChunk) error) error {
	return protocol.ErrUnsupportedOverHID
}

// ClearLogs implements protocol.Transport. The Raw HID command table
// has no frame for clearing logs; use the HTTP transport.
func (t *Transport) ClearLogs(ctx context.Context) error {
	return protocol.ErrUnsupportedOverHID
}
