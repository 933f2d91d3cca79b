package shell

// isSpecial reports whether c ends an argument.
func isSpecial(c byte) bool {
	switch c {
	case ' ', '\t', '&', ';', '\n':
		return true
	}
	return false
}

// Tokenizer lazily splits one input line into tokens.
//
// The line is consumed left to right; once the end of the line (a newline or
// the end of the string) is reached every further call to Next returns
// EndOfLine. Tokenize a fresh line with a new Tokenizer.
type Tokenizer struct {
	line string
	pos  int
}

// NewTokenizer creates a tokenizer over line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{line: line}
}

// Next returns the next token and advances past it.
func (t *Tokenizer) Next() Token {
	for t.pos < len(t.line) && (t.line[t.pos] == ' ' || t.line[t.pos] == '\t') {
		t.pos++
	}

	if t.pos >= len(t.line) {
		return Token{Kind: EndOfLine}
	}

	switch t.line[t.pos] {
	case '\n':
		// Anything after the newline belongs to no statement.
		t.pos = len(t.line)
		return Token{Kind: EndOfLine}
	case '&':
		t.pos++
		return Token{Kind: Ampersand}
	case ';':
		t.pos++
		return Token{Kind: Semicolon}
	}

	start := t.pos
	for t.pos < len(t.line) && !isSpecial(t.line[t.pos]) {
		t.pos++
	}
	return Token{Kind: Arg, Text: t.line[start:t.pos]}
}

// Tokenize returns every token of line up to and including EndOfLine.
func Tokenize(line string) []Token {
	var out []Token
	tok := NewTokenizer(line)
	for {
		next := tok.Next()
		out = append(out, next)
		if next.Kind == EndOfLine {
			return out
		}
	}
}
