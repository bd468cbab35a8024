package protocol

// NVSType tags the wire type of an NVS value, matching the device's
// type byte exactly so it can be sent and compared without translation.
type NVSType byte

const (
	NVSTypeU8     NVSType = 0x01
	NVSTypeI8     NVSType = 0x11
	NVSTypeU16    NVSType = 0x02
	NVSTypeI16    NVSType = 0x12
	NVSTypeU32    NVSType = 0x04
	NVSTypeI32    NVSType = 0x14
	NVSTypeU64    NVSType = 0x08
	NVSTypeI64    NVSType = 0x18
	NVSTypeString NVSType = 0x21
	NVSTypeBlob   NVSType = 0x42
)

var nvsTypeNames = map[NVSType]string{
	NVSTypeU8:     "u8",
	NVSTypeI8:     "i8",
	NVSTypeU16:    "u16",
	NVSTypeI16:    "i16",
	NVSTypeU32:    "u32",
	NVSTypeI32:    "i32",
	NVSTypeU64:    "u64",
	NVSTypeI64:    "i64",
	NVSTypeString: "string",
	NVSTypeBlob:   "blob",
}

var nvsNameTypes map[string]NVSType

func init() {
	nvsNameTypes = make(map[string]NVSType, len(nvsTypeNames))
	for t, name := range nvsTypeNames {
		nvsNameTypes[name] = t
	}
}

func (t NVSType) String() string {
	if s, ok := nvsTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseNVSType maps a CLI-facing type name (u8, i8, ..., string, blob)
// to its wire NVSType.
func ParseNVSType(name string) (NVSType, error) {
	if t, ok := nvsNameTypes[name]; ok {
		return t, nil
	}
	return 0, newProtocolError("unknown NVS type: "+name, nil)
}

// NVS size limits enforced both by the host (so a bad request never
// reaches the wire) and, independently, by the device.
const (
	NVSMaxKeyLength     = 15
	NVSMaxPayloadLength = 1024
)
