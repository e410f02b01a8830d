package k6x

import (
	"bytes"
	"fmt"
	"strings"
)

const directivePrefix = "use k6"

// Location is a position in a source file. Line and Column are 1-based.
type Location struct {
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (loc Location) String() string {
	if loc.Line == 0 {
		return loc.Path
	}

	return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Line, loc.Column)
}

// Directive is the raw content of a "use k6" string literal and its location.
type Directive struct {
	Raw      string
	Location Location
}

func (d Directive) String() string {
	return fmt.Sprintf("%s: %q", d.Location, d.Raw)
}

// Scanner reads the "use k6" directives from the leading block of a script:
// string literal statements, comments and blank lines before the first other statement.
// Directives after the leading block are ignored.
type Scanner struct {
	path string
	src  []byte
	pos  int
	line int
	col  int
	done bool
	cur  Directive
}

// NewScanner returns a Scanner reading directives from src. The path is only used for locations.
func NewScanner(path string, src []byte) *Scanner {
	s := &Scanner{path: path, src: src, line: 1, col: 1}

	s.skipPreamble()

	return s
}

// Scan advances to the next directive. It returns false when the leading block ends.
func (s *Scanner) Scan() bool {
	for !s.done {
		s.skipBlanksAndComments()

		if s.pos >= len(s.src) {
			s.done = true

			break
		}

		quote := s.src[s.pos]
		if quote != '"' && quote != '\'' {
			s.done = true

			break
		}

		loc := Location{Path: s.path, Line: s.line, Column: s.col}

		value, ok := s.readString(quote)
		if !ok || !s.endOfStatement() {
			s.done = true

			break
		}

		if isDirective(value) {
			s.cur = Directive{Raw: value, Location: loc}

			return true
		}
	}

	return false
}

// Directive returns the directive read by the last successful call to Scan.
func (s *Scanner) Directive() Directive {
	return s.cur
}

// ScanDirectives returns all directives of the leading block of src.
func ScanDirectives(path string, src []byte) []Directive {
	var all []Directive

	s := NewScanner(path, src)
	for s.Scan() {
		all = append(all, s.Directive())
	}

	return all
}

func isDirective(value string) bool {
	rest, found := strings.CutPrefix(value, directivePrefix)

	return found && (len(rest) == 0 || rest[0] == ' ' || rest[0] == '\t')
}

func (s *Scanner) skipPreamble() {
	if bytes.HasPrefix(s.src, []byte("\xEF\xBB\xBF")) {
		s.pos = 3
	}

	if bytes.HasPrefix(s.src[s.pos:], []byte("#!")) {
		for s.pos < len(s.src) && s.src[s.pos] != '\n' {
			s.advance()
		}
	}
}

func (s *Scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}

	return s.src[s.pos+offset]
}

func (s *Scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.pos++
}

// skipBlanksAndComments skips whitespace, line terminators and comments.
// An unterminated block comment ends the leading block.
func (s *Scanner) skipBlanksAndComments() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			s.advance()
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			if !s.skipBlockComment() {
				s.done = true

				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.advance()
	}
}

func (s *Scanner) skipBlockComment() bool {
	s.advance()
	s.advance()

	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.advance()
			s.advance()

			return true
		}

		s.advance()
	}

	return false
}

// readString reads a string literal starting at the opening quote.
// It returns the literal's raw content between the quotes.
func (s *Scanner) readString(quote byte) (string, bool) {
	s.advance()

	start := s.pos

	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case quote:
			value := string(s.src[start:s.pos])
			s.advance()

			return value, true
		case '\\':
			s.advance()
			if s.pos < len(s.src) {
				s.advance()
			}
		case '\n', '\r':
			return "", false
		default:
			s.advance()
		}
	}

	return "", false
}

// continuesOnNextLine reports whether the token after the line terminator
// continues the expression instead of starting a new statement.
// The scanner position is not changed.
func (s *Scanner) continuesOnNextLine() bool {
	ahead := *s

	ahead.skipBlanksAndComments()

	if ahead.done || ahead.pos >= len(ahead.src) {
		return false
	}

	c, next := ahead.src[ahead.pos], ahead.peek(1)

	switch c {
	case '+', '-':
		// a line terminator is not allowed before postfix ++ and --
		return next != c
	case '!':
		return next == '='
	case '*', '/', '%', '&', '|', '^', '<', '>', '=', '?', '.', ',', '[', '(', '`':
		return true
	}

	word := ahead.src[ahead.pos:]
	for _, keyword := range []string{"instanceof", "in"} {
		if bytes.HasPrefix(word, []byte(keyword)) && !isIdentifierPart(ahead.peek(len(keyword))) {
			return true
		}
	}

	return false
}

func isIdentifierPart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// endOfStatement consumes the end of a string literal statement:
// an optional semicolon, a line terminator or the end of input, possibly preceded by blanks or comments.
func (s *Scanner) endOfStatement() bool {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t':
			s.advance()
		case c == ';':
			s.advance()

			return true
		case c == '\n' || c == '\r':
			return !s.continuesOnNextLine()
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()

			return !s.continuesOnNextLine()
		case c == '/' && s.peek(1) == '*':
			if !s.skipBlockComment() {
				return false
			}
		default:
			return false
		}
	}

	return true
}
