package shell

import "fmt"

// TokenKind classifies a token read from an input line.
type TokenKind int

const (
	// Arg is an ordinary argument word.
	Arg TokenKind = iota
	// EndOfLine ends the line and the statement in progress.
	EndOfLine
	// Semicolon ends a foreground statement.
	Semicolon
	// Ampersand ends a background statement.
	Ampersand
)

func (k TokenKind) String() string {
	switch k {
	case Arg:
		return "Arg"
	case EndOfLine:
		return "EndOfLine"
	case Semicolon:
		return "Semicolon"
	case Ampersand:
		return "Ampersand"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single lexical unit of an input line. Text is only set for Arg.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	if t.Kind == Arg {
		return fmt.Sprintf("Arg(%q)", t.Text)
	}
	return t.Kind.String()
}
