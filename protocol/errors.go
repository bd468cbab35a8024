// Package protocol defines the wire-level vocabulary shared by every
// transport that talks to an ODKey device: command codes, NVS value
// typing, frame sizing, and the error taxonomy transports report
// through.
package protocol

// baseError is the common shape every error this package returns takes: an
// optional message layered on top of an optional cause. Either may be
// empty, but not both.
type baseError struct {
	msg string
	err error
}

func (e baseError) Error() string {
	if e.msg != "" {
		if e.err != nil {
			return e.msg + ": " + e.err.Error()
		}
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e baseError) Unwrap() error {
	return e.err
}

func wrapErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return baseError{msg: msg, err: err}
}

// TransportError reports a failure getting bytes to or from the
// device at all: the device was not found, the connection dropped, a
// read/write on the underlying handle failed, or the 5-second command
// deadline elapsed.
type TransportError struct {
	baseError
}

func newTransportError(msg string, err error) error {
	if err == nil {
		return nil
	}
	return TransportError{baseError{msg: msg, err: err}}
}

// ProtocolError reports that bytes moved, but what came back does not
// make sense: a response frame with an unexpected command code, a
// RESP_ERROR response, a size that doesn't fit the frame format, or a
// device-reported NVS/program failure.
type ProtocolError struct {
	baseError
}

func newProtocolError(msg string, err error) error {
	return ProtocolError{baseError{msg: msg, err: err}}
}

// IoError reports a local filesystem failure unrelated to the device
// itself: a program file that could not be read, or an output path
// that could not be written.
type IoError struct {
	baseError
}

func newIoError(msg string, err error) error {
	if err == nil {
		return nil
	}
	return IoError{baseError{msg: msg, err: err}}
}

// NewTransportError wraps err (which may be nil, yielding nil) as a
// TransportError with msg as context.
func NewTransportError(msg string, err error) error { return newTransportError(msg, err) }

// NewProtocolError wraps err as a ProtocolError with msg as context.
// err may be nil: the result is then a ProtocolError carrying msg
// alone, never nil.
func NewProtocolError(msg string, err error) error { return newProtocolError(msg, err) }

// NewIoError wraps err (which may be nil, yielding nil) as an IoError
// with msg as context.
func NewIoError(msg string, err error) error { return newIoError(msg, err) }

var (
	// ErrDeviceNotFound is returned by a transport's Open when no
	// matching device is attached.
	ErrDeviceNotFound = TransportError{baseError{msg: "device not found"}}

	// ErrUnsupportedOverHID is returned by the HID transport for
	// operations the Raw HID command table has no frame for: log
	// streaming and log clearing are HTTP-only.
	ErrUnsupportedOverHID = ProtocolError{baseError{msg: "operation not supported over the HID transport"}}

	// ErrTimeout is returned when a command's 5-second response
	// deadline elapses without a RESP_OK or RESP_ERROR frame.
	ErrTimeout = TransportError{baseError{msg: "timed out waiting for device response"}}

	// ErrNotFound is returned when a requested NVS key or program
	// target does not exist on the device.
	ErrNotFound = ProtocolError{baseError{msg: "not found"}}
)
