package odkeyscript

// TokenType tags the variant a Token carries. The lexer assigns it from
// the token text; the parser dispatches on it, and on the keyword text
// of Command tokens.
type TokenType int

const (
	TokenCommand TokenType = iota
	TokenKey
	TokenModifier
	TokenNumber
	TokenString
	TokenBraceOpen
	TokenBraceClose
	TokenComment
	TokenEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenCommand:   "Command",
	TokenKey:       "Key",
	TokenModifier:  "Modifier",
	TokenNumber:    "Number",
	TokenString:    "String",
	TokenBraceOpen: "BraceOpen",
	TokenBraceClose: "BraceClose",
	TokenComment:   "Comment",
	TokenEOF:       "Eof",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return "?unknown?"
}

// Token is a single lexical unit: its tag, its original source text,
// and its 1-based line/column in the source.
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
}

// commandKeywords is the closed set of reserved words the lexer
// recognizes as TokenCommand. Anything else alphabetic is a Key or,
// if prefixed with M_, a Modifier.
var commandKeywords = map[string]bool{
	"press_time":     true,
	"interkey_time":  true,
	"keydn":          true,
	"keyup":          true,
	"press":          true,
	"type":           true,
	"repeat":         true,
	"pause":          true,
}
