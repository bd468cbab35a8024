package odkeyscript

// keyCodes maps textual key names to their 8-bit USB HID usage code.
// Values match the USB HID Keyboard/Keypad usage page.
var keyCodes = map[string]byte{
	// Alphanumeric keys
	"A": 0x04, "B": 0x05, "C": 0x06, "D": 0x07, "E": 0x08, "F": 0x09,
	"G": 0x0A, "H": 0x0B, "I": 0x0C, "J": 0x0D, "K": 0x0E, "L": 0x0F,
	"M": 0x10, "N": 0x11, "O": 0x12, "P": 0x13, "Q": 0x14, "R": 0x15,
	"S": 0x16, "T": 0x17, "U": 0x18, "V": 0x19, "W": 0x1A, "X": 0x1B,
	"Y": 0x1C, "Z": 0x1D,
	"1": 0x1E, "2": 0x1F, "3": 0x20, "4": 0x21, "5": 0x22,
	"6": 0x23, "7": 0x24, "8": 0x25, "9": 0x26, "0": 0x27,

	// Special keys
	"ENTER": 0x28, "ESCAPE": 0x29, "BACKSPACE": 0x2A, "TAB": 0x2B,
	"SPACE": 0x2C, "MINUS": 0x2D, "EQUAL": 0x2E, "LEFTBRACE": 0x2F,
	"RIGHTBRACE": 0x30, "BACKSLASH": 0x31, "NONUS_HASH": 0x32,
	"SEMICOLON": 0x33, "APOSTROPHE": 0x34, "GRAVE": 0x35, "COMMA": 0x36,
	"DOT": 0x37, "SLASH": 0x38, "CAPSLOCK": 0x39,

	// Function keys
	"F1": 0x3A, "F2": 0x3B, "F3": 0x3C, "F4": 0x3D, "F5": 0x3E,
	"F6": 0x3F, "F7": 0x40, "F8": 0x41, "F9": 0x42, "F10": 0x43,
	"F11": 0x44, "F12": 0x45,

	// Arrow keys
	"UP": 0x52, "DOWN": 0x51, "LEFT": 0x50, "RIGHT": 0x4F,

	// Numpad keys
	"NUMLOCK": 0x53, "KP_SLASH": 0x54, "KP_ASTERISK": 0x55,
	"KP_MINUS": 0x56, "KP_PLUS": 0x57, "KP_ENTER": 0x58,
	"KP_1": 0x59, "KP_2": 0x5A, "KP_3": 0x5B, "KP_4": 0x5C, "KP_5": 0x5D,
	"KP_6": 0x5E, "KP_7": 0x5F, "KP_8": 0x60, "KP_9": 0x61, "KP_0": 0x62,
	"KP_DOT": 0x63,

	// Other keys
	"SCROLLLOCK": 0x47, "PAUSE": 0x48, "INSERT": 0x49, "HOME": 0x4A,
	"PAGEUP": 0x4B, "DELETE": 0x4C, "END": 0x4D, "PAGEDOWN": 0x4E,
	"APPLICATION": 0x65, "MENU": 0x76,

	// International keys
	"HENKAN": 0x8A, "MUHENKAN": 0x8B, "KATAKANAHIRAGANA": 0x8C,
	"HANGEUL": 0x90, "HANJA": 0x91,

	// System keys
	"POWER": 0x81, "SLEEP": 0x82, "WAKE": 0x83,

	// Modifier keys (usable as regular keys too)
	"LEFTCTRL": 0xE0, "LEFTSHIFT": 0xE1, "LEFTALT": 0xE2, "LEFTMETA": 0xE3,
	"RIGHTCTRL": 0xE4, "RIGHTSHIFT": 0xE5, "RIGHTALT": 0xE6, "RIGHTMETA": 0xE7,

	// Media keys
	"MEDIA_PLAY_PAUSE": 0xE8, "MEDIA_STOP": 0xE9, "MEDIA_PREVIOUS": 0xEA,
	"MEDIA_NEXT": 0xEB, "MEDIA_VOLUME_UP": 0xEC, "MEDIA_VOLUME_DOWN": 0xED,
	"MEDIA_MUTE": 0xEE, "MEDIA_EJECT": 0xB3, "MEDIA_RECORD": 0xB4,
	"MEDIA_REWIND": 0xB5, "MEDIA_FAST_FORWARD": 0xB6,

	// Consumer keys
	"CALCULATOR": 0xA1, "MYCOMPUTER": 0xA2, "WWW_SEARCH": 0xA3,
	"WWW_HOME": 0xA4, "WWW_BACK": 0xA5, "WWW_FORWARD": 0xA6,
	"WWW_STOP": 0xA7, "WWW_REFRESH": 0xA8, "WWW_FAVORITES": 0xA9,
	"MAIL": 0xAA, "COMPOSE": 0xAB, "BROWSER_BACK": 0xAC,
	"BROWSER_FORWARD": 0xAD, "BROWSER_REFRESH": 0xAE, "BROWSER_STOP": 0xAF,
	"BROWSER_SEARCH": 0xB0, "BROWSER_FAVORITES": 0xB1, "BROWSER_HOME": 0xB2,
	"GAME": 0xB7, "CHAT": 0xB8, "ZOOM": 0xB9, "PRESENTATION": 0xBA,
	"SPREADSHEET": 0xBB, "LANGUAGE": 0xBC,
}

// keyNames is the reverse of keyCodes, built once at init, used by the
// disassembler.
var keyNames map[byte]string

// modifierBits maps modifier identifiers (M_LEFTCTRL, ...) to their
// bit in the 8-bit modifier mask.
var modifierBits = map[string]byte{
	"M_LEFTCTRL":   0x01,
	"M_LEFTSHIFT":  0x02,
	"M_LEFTALT":    0x04,
	"M_LEFTGUI":    0x08,
	"M_RIGHTCTRL":  0x10,
	"M_RIGHTSHIFT": 0x20,
	"M_RIGHTALT":   0x40,
	"M_RIGHTGUI":   0x80,
}

// modifierNames is the reverse of modifierBits, ordered by ascending
// bit value for the disassembler's "ascending bit order" requirement.
var modifierNames []struct {
	bit  byte
	name string
}

// asciiKey is the (keycode, modifier) pair a printable ASCII character
// types as, per the type statement's lowering rule.
type asciiKey struct {
	code byte
	mod  byte
}

var asciiTable map[byte]asciiKey

func init() {
	keyNames = make(map[byte]string, len(keyCodes))
	for name, code := range keyCodes {
		keyNames[code] = name
	}

	for name, bit := range modifierBits {
		modifierNames = append(modifierNames, struct {
			bit  byte
			name string
		}{bit, name})
	}
	for i := 0; i < len(modifierNames); i++ {
		for j := i + 1; j < len(modifierNames); j++ {
			if modifierNames[j].bit < modifierNames[i].bit {
				modifierNames[i], modifierNames[j] = modifierNames[j], modifierNames[i]
			}
		}
	}

	asciiTable = make(map[byte]asciiKey, 96)
	shift := modifierBits["M_LEFTSHIFT"]

	for c := byte('a'); c <= 'z'; c++ {
		asciiTable[c] = asciiKey{keyCodes[string(rune(c-32))], 0}
	}
	for c := byte('A'); c <= 'Z'; c++ {
		asciiTable[c] = asciiKey{keyCodes[string(rune(c))], shift}
	}
	for c := byte('0'); c <= '9'; c++ {
		asciiTable[c] = asciiKey{keyCodes[string(rune(c))], 0}
	}

	shiftedDigits := map[byte]byte{
		'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
		'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	}
	for sym, digit := range shiftedDigits {
		asciiTable[sym] = asciiKey{keyCodes[string(rune(digit))], shift}
	}

	unshiftedPunct := map[byte]string{
		'-': "MINUS", '=': "EQUAL", '[': "LEFTBRACE", ']': "RIGHTBRACE",
		'\\': "BACKSLASH", ';': "SEMICOLON", '\'': "APOSTROPHE",
		',': "COMMA", '.': "DOT", '/': "SLASH", '`': "GRAVE",
	}
	for sym, key := range unshiftedPunct {
		asciiTable[sym] = asciiKey{keyCodes[key], 0}
	}

	shiftedPunct := map[byte]string{
		'_': "MINUS", '+': "EQUAL", '{': "LEFTBRACE", '}': "RIGHTBRACE",
		'|': "BACKSLASH", ':': "SEMICOLON", '"': "APOSTROPHE",
		'<': "COMMA", '>': "DOT", '?': "SLASH", '~': "GRAVE",
	}
	for sym, key := range shiftedPunct {
		asciiTable[sym] = asciiKey{keyCodes[key], shift}
	}

	asciiTable['\t'] = asciiKey{keyCodes["TAB"], 0}
	asciiTable['\n'] = asciiKey{keyCodes["ENTER"], 0}
	asciiTable[' '] = asciiKey{keyCodes["SPACE"], 0}
}

// charToKeycode returns the (keycode, modifier) a printable ASCII
// character types as. Unmapped characters fall back to SPACE with no
// modifier, per the documented fallback.
func charToKeycode(c byte) (code byte, mod byte) {
	if k, ok := asciiTable[c]; ok {
		return k.code, k.mod
	}
	return keyCodes["SPACE"], 0
}
