package shell

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPipeline(t *testing.T) {
	stmt, err := Build([]string{"ls", "-l", "|", "wc", "-l"}, Foreground)
	require.NoError(t, err)

	require.NotNil(t, stmt.Pipeline)
	assert.Nil(t, stmt.Command)
	assert.Equal(t, Command{"ls", "-l"}, stmt.Pipeline.Stage1)
	assert.Equal(t, Command{"wc", "-l"}, stmt.Pipeline.Stage2)
	assert.Equal(t, Foreground, stmt.Mode)
}

func TestBuildCommand(t *testing.T) {
	stmt, err := Build([]string{"sleep", "10"}, Background)
	require.NoError(t, err)

	assert.Nil(t, stmt.Pipeline)
	assert.Equal(t, Command{"sleep", "10"}, stmt.Command)
	assert.Equal(t, Background, stmt.Mode)
	assert.Equal(t, "sleep 10 &", stmt.String())
}

func TestBuildDoesNotAlias(t *testing.T) {
	args := []string{"a", "|", "b"}
	stmt, err := Build(args, Foreground)
	require.NoError(t, err)

	args[0], args[2] = "x", "y"
	assert.Equal(t, Command{"a"}, stmt.Pipeline.Stage1)
	assert.Equal(t, Command{"b"}, stmt.Pipeline.Stage2)
}

func TestBuildSyntaxErrors(t *testing.T) {
	cases := map[string]struct {
		args []string
		mode Mode
		msg  string
	}{
		"two pipes":          {[]string{"a", "|", "b", "|", "c"}, Foreground, "multiple pipe separators not supported"},
		"adjacent pipes":     {[]string{"a", "|", "|", "c"}, Foreground, "multiple pipe separators not supported"},
		"missing upstream":   {[]string{"|", "wc"}, Foreground, "missing command before |"},
		"missing downstream": {[]string{"ls", "|"}, Foreground, "missing command after |"},
		"lone pipe":          {[]string{"|"}, Foreground, "missing command before |"},
		"background":         {[]string{"ls", "|", "wc"}, Background, "pipelines cannot run in the background"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build(tc.args, tc.mode)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %v", err)
			assert.Equal(t, tc.msg, syntaxErr.Msg)
		})
	}
}

func TestParseStatements(t *testing.T) {
	stmts, err := Parse("sleep 5 & echo hi; ls | wc -l\n", 0)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.Equal(t, Command{"sleep", "5"}, stmts[0].Command)
	assert.Equal(t, Background, stmts[0].Mode)

	assert.Equal(t, Command{"echo", "hi"}, stmts[1].Command)
	assert.Equal(t, Foreground, stmts[1].Mode)

	require.NotNil(t, stmts[2].Pipeline)
	assert.Equal(t, Command{"ls"}, stmts[2].Pipeline.Stage1)
	assert.Equal(t, Command{"wc", "-l"}, stmts[2].Pipeline.Stage2)
}

func TestParseBareSeparators(t *testing.T) {
	stmts, err := Parse(" ; & ;\n", 0)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestParseTruncatesArguments(t *testing.T) {
	stmts, err := Parse("echo a b c d; echo e\n", 3)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t, Command{"echo", "a", "b"}, stmts[0].Command)
	assert.Equal(t, Command{"echo", "e"}, stmts[1].Command)
}

func TestParserContinuesAfterSyntaxError(t *testing.T) {
	p := NewParser("a | b | c; echo ok", 0)

	_, err := p.Next()
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))

	stmt, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, Command{"echo", "ok"}, stmt.Command)

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParserStopsAtEndOfLine(t *testing.T) {
	p := NewParser("echo one\necho two\n", 0)

	stmt, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, Command{"echo", "one"}, stmt.Command)

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}
