package protocol

import "context"

// DeviceInfo describes one enumerated or connected device. Transports
// that cannot learn a field (e.g. HTTP has no USB path) leave it zero.
type DeviceInfo struct {
	Manufacturer string
	Product      string
	Path         string
	VendorID     uint16
	ProductID    uint16
}

// NVSValue is a decoded NVS entry: its declared type and the raw bytes
// nvscodec encoded it to (or decoded it from).
type NVSValue struct {
	Type NVSType
	Raw  []byte
}

// LogChunk is one piece of a streamed log download. Transports that
// have no natural chunk boundary (the HID transport, where logging
// is unsupported) never produce these.
type LogChunk struct {
	Data []byte
}

// Transport is the capability surface both the HID and HTTP backends
// implement. Callers (cmd/odkey) depend only on this interface, never
// on a concrete transport, so the two can be swapped without touching
// call sites.
type Transport interface {
	// UploadProgram writes bytecode to target, replacing whatever
	// program (if any) already occupies it.
	UploadProgram(ctx context.Context, target Target, bytecode []byte) error

	// DownloadProgram reads back the bytecode currently stored at
	// target.
	DownloadProgram(ctx context.Context, target Target) ([]byte, error)

	// ExecuteProgram starts running the program stored at target.
	ExecuteProgram(ctx context.Context, target Target) error

	// NVSSet stores value under key, overwriting any existing entry.
	NVSSet(ctx context.Context, key string, value NVSValue) error

	// NVSGet retrieves the value stored under key. The HTTP transport
	// returns ErrNotFound if key does not exist; the HID transport does
	// not return ErrNotFound, and a RESP_ERROR from the device surfaces
	// as a generic ProtocolError.
	NVSGet(ctx context.Context, key string) (NVSValue, error)

	// NVSDelete removes key. The HTTP transport returns ErrNotFound if
	// key does not exist; the HID transport does not return
	// ErrNotFound, and a RESP_ERROR from the device surfaces as a
	// generic ProtocolError.
	NVSDelete(ctx context.Context, key string) error

	// DownloadLogs streams the device's log buffer to fn, one chunk
	// at a time, until the device signals end of stream.
	DownloadLogs(ctx context.Context, fn func(LogChunk) error) error

	// ClearLogs empties the device's log buffer.
	ClearLogs(ctx context.Context) error

	// Close releases any resources (file handles, HTTP clients) the
	// transport holds.
	Close() error
}
