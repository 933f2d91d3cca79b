// Package shell turns input lines into statements: commands and two-stage
// pipelines with their execution mode.
//
// Grammar, per input line:
//
//	statement  := arg+ ('|' arg+)? terminator
//	terminator := ';' | '&' | <end-of-line>
//
// There is no quoting, escaping, expansion, or redirection.
package shell

import (
	"io"
	"strings"
)

// PipeArg is the argument that splits a statement into a pipeline.
const PipeArg = "|"

// Mode says whether the shell waits for a statement to finish.
type Mode int

const (
	Foreground Mode = iota
	Background
)

func (m Mode) String() string {
	if m == Background {
		return "background"
	}
	return "foreground"
}

// Command is an argument vector, Command[0] is the program name.
type Command []string

// Name returns the program name or "" for an empty command.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

func (c Command) String() string {
	return strings.Join(c, " ")
}

// Pipeline connects the output of Stage1 to the input of Stage2.
type Pipeline struct {
	Stage1 Command
	Stage2 Command
}

func (p Pipeline) String() string {
	return p.Stage1.String() + " " + PipeArg + " " + p.Stage2.String()
}

// Statement is one command or pipeline and the mode chosen by its terminator.
// Exactly one of Command and Pipeline is set.
type Statement struct {
	Command  Command
	Pipeline *Pipeline
	Mode     Mode
}

func (s Statement) String() string {
	var out string
	if s.Pipeline != nil {
		out = s.Pipeline.String()
	} else {
		out = s.Command.String()
	}
	if s.Mode == Background {
		out += " &"
	}
	return out
}

// SyntaxError reports a malformed statement. The statement is skipped.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

// Parser groups the tokens of one line into statements.
type Parser struct {
	tokens  *Tokenizer
	maxArgs int
	done    bool
}

// NewParser creates a parser over line. Statements keep at most maxArgs
// arguments, extra arguments are dropped; maxArgs <= 0 means no limit.
func NewParser(line string, maxArgs int) *Parser {
	return &Parser{
		tokens:  NewTokenizer(line),
		maxArgs: maxArgs,
	}
}

// Next returns the next non-empty statement on the line, or io.EOF once the
// end of the line is reached. A *SyntaxError only invalidates the statement
// it is returned for; parsing can continue with the next call.
func (p *Parser) Next() (Statement, error) {
	var args []string
	for !p.done {
		tok := p.tokens.Next()
		switch tok.Kind {
		case Arg:
			if p.maxArgs <= 0 || len(args) < p.maxArgs {
				args = append(args, tok.Text)
			}
			continue
		case EndOfLine:
			p.done = true
		}

		// Bare separators produce no statement.
		if len(args) == 0 {
			continue
		}

		mode := Foreground
		if tok.Kind == Ampersand {
			mode = Background
		}
		return Build(args, mode)
	}
	return Statement{}, io.EOF
}

// Parse returns every statement on line. Parsing stops at the first error.
func Parse(line string, maxArgs int) ([]Statement, error) {
	var out []Statement
	p := NewParser(line, maxArgs)
	for {
		stmt, err := p.Next()
		switch {
		case err == io.EOF:
			return out, nil
		case err != nil:
			return out, err
		}
		out = append(out, stmt)
	}
}

// Build finalizes the arguments of one statement into a command or a
// pipeline. The returned statement never aliases args.
func Build(args []string, mode Mode) (Statement, error) {
	pipeAt := -1
	for i, arg := range args {
		if arg != PipeArg {
			continue
		}
		if pipeAt >= 0 {
			return Statement{}, &SyntaxError{Msg: "multiple pipe separators not supported"}
		}
		pipeAt = i
	}

	if pipeAt < 0 {
		return Statement{Command: copyCommand(args), Mode: mode}, nil
	}

	stage1, stage2 := args[:pipeAt], args[pipeAt+1:]
	switch {
	case len(stage1) == 0:
		return Statement{}, &SyntaxError{Msg: "missing command before " + PipeArg}
	case len(stage2) == 0:
		return Statement{}, &SyntaxError{Msg: "missing command after " + PipeArg}
	case mode == Background:
		return Statement{}, &SyntaxError{Msg: "pipelines cannot run in the background"}
	}

	return Statement{
		Pipeline: &Pipeline{
			Stage1: copyCommand(stage1),
			Stage2: copyCommand(stage2),
		},
		Mode: Foreground,
	}, nil
}

func copyCommand(args []string) Command {
	out := make(Command, len(args))
	copy(out, args)
	return out
}
