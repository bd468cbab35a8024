package protocol

import (
	"errors"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("handle closed")
	err := NewTransportError("write failed", cause)
	assert(t, errors.Is(err, cause), "expected errors.Is to find the wrapped cause")
	assert(t, err.Error() == "write failed: handle closed", "got %q", err.Error())
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert(t, NewTransportError("whatever", nil) == nil, "expected nil when wrapping a nil cause")
}

func TestWriteCommandsByTarget(t *testing.T) {
	start, chunk, finish := WriteCommands(TargetFlash)
	assert(t, start == CmdFlashWriteStart && chunk == CmdFlashWriteChunk && finish == CmdFlashWriteFinish,
		"unexpected flash write commands: %02X %02X %02X", start, chunk, finish)

	start, chunk, finish = WriteCommands(TargetRAM)
	assert(t, start == CmdRAMWriteStart && chunk == CmdRAMWriteChunk && finish == CmdRAMWriteFinish,
		"unexpected ram write commands: %02X %02X %02X", start, chunk, finish)
}

func TestExecuteCommandByTarget(t *testing.T) {
	assert(t, ExecuteCommand(TargetFlash) == CmdFlashExecute, "unexpected flash execute command")
	assert(t, ExecuteCommand(TargetRAM) == CmdRAMExecute, "unexpected ram execute command")
}

func TestParseTarget(t *testing.T) {
	tgt, err := ParseTarget("ram")
	assert(t, err == nil && tgt == TargetRAM, "expected ram target, got %v err=%v", tgt, err)

	_, err = ParseTarget("eeprom")
	assert(t, err != nil, "expected an error for an unknown target")
}

func TestParseNVSType(t *testing.T) {
	typ, err := ParseNVSType("u32")
	assert(t, err == nil && typ == NVSTypeU32, "expected u32, got %v err=%v", typ, err)

	_, err = ParseNVSType("nope")
	assert(t, err != nil, "expected an error for an unknown NVS type name")
}
