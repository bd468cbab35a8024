package odkeyscript

import (
	"fmt"
	"strings"
)

func readUint16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// formatModifiers renders a modifier mask as its M_ names joined by a
// space, in ascending bit order, or "" if the mask is zero.
func formatModifiers(mask byte) string {
	if mask == 0 {
		return ""
	}
	var names []string
	for _, m := range modifierNames {
		if mask&m.bit != 0 {
			names = append(names, m.name)
		}
	}
	return strings.Join(names, " ")
}

// formatKeys renders a slice of key codes as their names joined by a
// space, falling back to a 0x-prefixed hex literal for any code absent
// from keyNames.
func formatKeys(keys []byte) string {
	if len(keys) == 0 {
		return ""
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		if name, ok := keyNames[k]; ok {
			names[i] = name
		} else {
			names[i] = fmt.Sprintf("0x%02X", k)
		}
	}
	return strings.Join(names, " ")
}

// keydnLine formats a KEYDN/KEYUP line, omitting the modifier and/or
// key fields entirely when empty rather than leaving blank columns.
func keydnLine(pc int, op Opcode, mod, keys string) string {
	switch {
	case mod != "" && keys != "":
		return fmt.Sprintf("0x%04X: %s %s %s", pc, op, mod, keys)
	case mod != "":
		return fmt.Sprintf("0x%04X: %s %s", pc, op, mod)
	case keys != "":
		return fmt.Sprintf("0x%04X: %s %s", pc, op, keys)
	default:
		return fmt.Sprintf("0x%04X: %s", pc, op)
	}
}

// Disassemble walks bytecode front to back and returns one formatted
// line per decoded instruction. It never halts the whole walk on a
// malformed tail: an incomplete instruction or unrecognized opcode is
// rendered as a single descriptive line and the walk stops there,
// since there is nothing left that can be meaningfully decoded.
func Disassemble(bytecode []byte) []string {
	var lines []string
	pc := 0

	for pc < len(bytecode) {
		op := Opcode(bytecode[pc])

		switch op {
		case OpKeydn, OpKeyup:
			if pc+3 > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			mod := bytecode[pc+1]
			count := int(bytecode[pc+2])
			end := pc + 3 + count
			if end > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			keys := bytecode[pc+3 : end]
			lines = append(lines, keydnLine(pc, op, formatModifiers(mod), formatKeys(keys)))
			pc = end

		case OpKeyupAll:
			lines = append(lines, fmt.Sprintf("0x%04X: %s", pc, op))
			pc++

		case OpWait:
			if pc+3 > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			ms := readUint16LE(bytecode[pc+1 : pc+3])
			lines = append(lines, fmt.Sprintf("0x%04X: %s %d", pc, op, ms))
			pc += 3

		case OpSetCounter:
			if pc+4 > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			idx := bytecode[pc+1]
			count := readUint16LE(bytecode[pc+2 : pc+4])
			lines = append(lines, fmt.Sprintf("0x%04X: %s %d %d", pc, op, idx, count))
			pc += 4

		case OpDec:
			if pc+2 > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			idx := bytecode[pc+1]
			lines = append(lines, fmt.Sprintf("0x%04X: %s %d", pc, op, idx))
			pc += 2

		case OpJnz:
			if pc+5 > len(bytecode) {
				lines = append(lines, incompleteLine(pc, bytecode))
				return lines
			}
			target := readUint32LE(bytecode[pc+1 : pc+5])
			lines = append(lines, fmt.Sprintf("0x%04X: %s 0x%04X", pc, op, target))
			pc += 5

		default:
			lines = append(lines, fmt.Sprintf("0x%04X: UNKNOWN_OPCODE 0x%02X", pc, byte(op)))
			return lines
		}
	}

	return lines
}

func incompleteLine(pc int, bytecode []byte) string {
	op := Opcode(bytecode[pc])
	return fmt.Sprintf("0x%04X: %s (incomplete)", pc, op)
}
