package hidtransport

import (
	"context"
	"encoding/binary"
	"testing"

	"odkey/protocol"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// fakeDevice plays back a scripted sequence of responses, one per
// command written, and records every command+data pair it receives.
type fakeDevice struct {
	responses [][]byte
	writes    [][]byte
	closed    bool
}

func (f *fakeDevice) Write(p []byte) (int, error) {
	// p is [reportID][64-byte frame]; keep the frame only.
	frame := make([]byte, len(p)-1)
	copy(frame, p[1:])
	f.writes = append(f.writes, frame)
	return len(p), nil
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	copy(p, resp)
	return len(resp), nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

func okFrame(payload ...byte) []byte {
	frame := make([]byte, protocol.RawHIDReportSize)
	frame[0] = protocol.RespOK
	copy(frame[4:], payload)
	return frame
}

func errFrame() []byte {
	frame := make([]byte, protocol.RawHIDReportSize)
	frame[0] = protocol.RespError
	return frame
}

func TestUploadProgramFramesEachChunk(t *testing.T) {
	bytecode := make([]byte, protocol.RawHIDDataPayload+10)
	for i := range bytecode {
		bytecode[i] = byte(i)
	}

	fake := &fakeDevice{responses: [][]byte{okFrame(), okFrame(), okFrame(), okFrame()}}
	tr := newFromDevice(fake)

	err := tr.UploadProgram(context.Background(), protocol.TargetFlash, bytecode)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(fake.writes) == 4, "expected START + 2 chunks + FINISH = 4 writes, got %d", len(fake.writes))
	assert(t, fake.writes[0][0] == protocol.CmdFlashWriteStart, "expected WRITE_START first")
	assert(t, fake.writes[1][0] == protocol.CmdFlashWriteChunk, "expected WRITE_CHUNK second")
	assert(t, fake.writes[3][0] == protocol.CmdFlashWriteFinish, "expected WRITE_FINISH last")

	size := binary.LittleEndian.Uint32(fake.writes[0][4:8])
	assert(t, int(size) == len(bytecode), "expected size %d in START payload, got %d", len(bytecode), size)
}

func TestUploadProgramTooLargeForTarget(t *testing.T) {
	fake := &fakeDevice{}
	tr := newFromDevice(fake)
	err := tr.UploadProgram(context.Background(), protocol.TargetRAM, make([]byte, protocol.ProgramRAMMaxSize+1))
	assert(t, err != nil, "expected an error for an oversized RAM program")
	assert(t, len(fake.writes) == 0, "expected no writes once the size check fails")
}

func TestUploadProgramPropagatesDeviceError(t *testing.T) {
	fake := &fakeDevice{responses: [][]byte{errFrame()}}
	tr := newFromDevice(fake)
	err := tr.UploadProgram(context.Background(), protocol.TargetFlash, []byte{0x01})
	assert(t, err != nil, "expected an error when the device reports RESP_ERROR")
}

func TestDownloadProgramReassemblesChunks(t *testing.T) {
	sizeResp := okFrame(10, 0, 0, 0)
	chunk1 := okFrame(make([]byte, protocol.RawHIDDataPayload)...)
	for i := range chunk1[4:] {
		chunk1[4+i] = byte(i)
	}
	chunk2Data := make([]byte, 0) // size (10) fits in first chunk, no second chunk needed
	_ = chunk2Data

	fake := &fakeDevice{responses: [][]byte{sizeResp, chunk1}}
	tr := newFromDevice(fake)

	data, err := tr.DownloadProgram(context.Background(), protocol.TargetFlash)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, len(data) == 10, "expected 10 bytes, got %d", len(data))
	assert(t, data[0] == 0x00 && data[9] == 0x09, "expected reassembled bytes, got % X", data)
}

func TestDownloadProgramEmptyReturnsNotFound(t *testing.T) {
	fake := &fakeDevice{responses: [][]byte{okFrame(0, 0, 0, 0)}}
	tr := newFromDevice(fake)
	_, err := tr.DownloadProgram(context.Background(), protocol.TargetFlash)
	assert(t, err == protocol.ErrNotFound, "expected ErrNotFound for a zero-size program, got %v", err)
}

func TestExecuteProgramSendsCorrectCommand(t *testing.T) {
	fake := &fakeDevice{responses: [][]byte{okFrame()}}
	tr := newFromDevice(fake)
	err := tr.ExecuteProgram(context.Background(), protocol.TargetRAM)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, fake.writes[0][0] == protocol.CmdRAMExecute, "expected CMD_RAM_PROGRAM_EXECUTE")
}

func TestNVSSetFramesTypeAndKey(t *testing.T) {
	fake := &fakeDevice{responses: [][]byte{okFrame(), okFrame(), okFrame()}}
	tr := newFromDevice(fake)

	err := tr.NVSSet(context.Background(), "mykey", protocol.NVSValue{Type: protocol.NVSTypeU8, Raw: []byte{0x42}})
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, fake.writes[0][0] == protocol.CmdNVSSetStart, "expected NVS_SET_START first")
	assert(t, fake.writes[0][4] == byte(protocol.NVSTypeU8), "expected type byte in SET_START payload")
	assert(t, fake.writes[1][0] == protocol.CmdNVSSetData, "expected NVS_SET_DATA second")
	assert(t, fake.writes[2][0] == protocol.CmdNVSSetFinish, "expected NVS_SET_FINISH last")
}

func TestNVSGetDecodesTypeAndValue(t *testing.T) {
	resp := okFrame(byte(protocol.NVSTypeU32), 4, 0, 0, 0, 0xEF, 0xBE, 0xAD, 0xDE)
	fake := &fakeDevice{responses: [][]byte{resp}}
	tr := newFromDevice(fake)

	val, err := tr.NVSGet(context.Background(), "mykey")
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, val.Type == protocol.NVSTypeU32, "expected u32 type, got %v", val.Type)
	assert(t, len(val.Raw) == 4, "expected 4 raw bytes, got %d", len(val.Raw))
}

func TestNVSDeleteSendsKey(t *testing.T) {
	fake := &fakeDevice{responses: [][]byte{okFrame()}}
	tr := newFromDevice(fake)
	err := tr.NVSDelete(context.Background(), "mykey")
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, fake.writes[0][0] == protocol.CmdNVSDelete, "expected NVS_DELETE command")
}

func TestKeyTooLongRejected(t *testing.T) {
	fake := &fakeDevice{}
	tr := newFromDevice(fake)
	longKey := "this-key-is-way-too-long"
	err := tr.NVSDelete(context.Background(), longKey)
	assert(t, err != nil, "expected an error for an oversized key")
	assert(t, len(fake.writes) == 0, "expected no writes once the key length check fails")
}

func TestDownloadLogsUnsupportedOverHID(t *testing.T) {
	tr := newFromDevice(&fakeDevice{})
	err := tr.DownloadLogs(context.Background(), func(protocol.LogChunk) error { return nil })
	assert(t, err == protocol.ErrUnsupportedOverHID, "expected ErrUnsupportedOverHID, got %v", err)
}

func TestClearLogsUnsupportedOverHID(t *testing.T) {
	tr := newFromDevice(&fakeDevice{})
	err := tr.ClearLogs(context.Background())
	assert(t, err == protocol.ErrUnsupportedOverHID, "expected ErrUnsupportedOverHID, got %v", err)
}
