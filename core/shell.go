package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/proc"
	"github.com/josephlewis42/smallsh/core/shell"
	"golang.org/x/sys/unix"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"
)

// LineReader reads input lines, *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Options configures a Shell. Zero values fall back to the running process:
// its standard streams, working directory and os.Exit.
type Options struct {
	Config *config.Configuration
	Reader LineReader

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Signals switches interrupt delivery around process creation.
	Signals proc.Dispositions
	// Events receives session events, nil discards them.
	Events *logger.SessionLogger

	Exit         func(code int)
	Chdir        func(dir string) error
	Getwd        func() (string, error)
	ClearHistory func()
}

// Shell is a single interactive session. It owns the read-eval loop, the
// foreground job bookkeeping (through its controller) and the builtins.
type Shell struct {
	config *config.Configuration
	reader LineReader
	stdout io.Writer
	stderr io.Writer

	launcher   *proc.Launcher
	controller *proc.Controller
	colors     *ColorPrinter
	events     *logger.SessionLogger

	exit         func(int)
	chdir        func(string) error
	getwd        func() (string, error)
	clearHistory func()

	history    []string
	lastStatus int
	// quit is set by the exit builtin and by Terminate on any goroutine.
	quit int32

	terminateOnce sync.Once
}

// NewShell creates a session.
func NewShell(opts Options) *Shell {
	s := &Shell{
		config:       opts.Config,
		reader:       opts.Reader,
		stdout:       opts.Stdout,
		stderr:       opts.Stderr,
		events:       opts.Events,
		exit:         opts.Exit,
		chdir:        opts.Chdir,
		getwd:        opts.Getwd,
		clearHistory: opts.ClearHistory,
	}

	if s.config == nil {
		s.config = config.Default()
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.exit == nil {
		s.exit = os.Exit
	}
	if s.chdir == nil {
		s.chdir = os.Chdir
	}
	if s.getwd == nil {
		s.getwd = os.Getwd
	}

	s.colors = NewColorPrinter(s.config.Color, s.stdout)

	s.controller = proc.NewController(s.stdout, s.Terminate)
	if s.colors.Enabled() {
		s.controller.Paint = s.colors.Warn
	}
	s.controller.Observe = func(sig os.Signal, from, to proc.State) {
		s.record(logger.EventInterrupt, logger.Fields{
			"signal": signalName(sig),
			"from":   from.String(),
			"to":     to.String(),
		})
	}

	s.launcher = proc.NewLauncher(s.controller, opts.Signals)
	if opts.Stdin != nil {
		s.launcher.Stdin = opts.Stdin
	}
	s.launcher.Stdout = s.stdout
	s.launcher.Stderr = s.stderr

	return s
}

// Controller returns the interrupt controller signals should be delivered to.
func (s *Shell) Controller() *proc.Controller {
	return s.controller
}

func (s *Shell) stop() {
	atomic.StoreInt32(&s.quit, 1)
}

func (s *Shell) quitting() bool {
	return atomic.LoadInt32(&s.quit) != 0
}

// LastStatus returns the status of the most recent statement.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

// History returns the lines read this session.
func (s *Shell) History() []string {
	return s.history
}

// Prompt renders the configured prompt.
func (s *Shell) Prompt() string {
	prompt := s.config.Prompt

	pwd, _ := s.getwd()
	if home := os.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	host, _ := os.Hostname()

	prompt = strings.ReplaceAll(prompt, `\u`, os.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and executes lines until end of input, the exit builtin or an
// interrupt at the prompt. It returns the shell's exit status.
func (s *Shell) Run() int {
	for !s.quitting() {
		s.reader.SetPrompt(s.Prompt())
		line, err := s.reader.Readline()

		switch {
		case err == io.EOF:
			return 0 // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			// Ctrl-C at the prompt is an interrupt with nothing running.
			s.Terminate(unix.SIGINT)
			return 1

		case err != nil:
			log.Printf("Error readline: %v", err)
			return 1
		}

		s.RunLine(line)
	}
	return 0
}

// RunLine executes every statement on line and returns the status of the
// last one. Errors are reported and never stop the remaining statements.
func (s *Shell) RunLine(line string) int {
	line = strings.TrimSuffix(line, "\n")
	if len(line) > s.config.MaxLineLength {
		fmt.Fprintln(s.stderr, s.colors.Error("smallsh: input line too long"))
		s.lastStatus = 1
		return s.lastStatus
	}

	if strings.TrimSpace(line) != "" {
		s.history = append(s.history, line)
	}

	parser := shell.NewParser(line, s.config.MaxArgs)
	for !s.quitting() {
		stmt, err := parser.Next()
		switch {
		case err == io.EOF:
			return s.lastStatus

		case err != nil:
			s.report(err)
			s.record(logger.EventSyntaxError, logger.Fields{
				"line":  line,
				"error": err.Error(),
			})
			s.lastStatus = 2
			continue
		}

		s.lastStatus = s.execute(stmt)
	}
	return s.lastStatus
}

func (s *Shell) execute(stmt shell.Statement) int {
	if stmt.Pipeline != nil {
		s.record(logger.EventPipeline, logger.Fields{
			"stage1": logger.StringList(stmt.Pipeline.Stage1),
			"stage2": logger.StringList(stmt.Pipeline.Stage2),
		})
		outcome, err := s.launcher.RunPipeline(*stmt.Pipeline)
		return s.finish(stmt.Pipeline.Stage2, outcome, err)
	}

	if builtin, ok := AllBuiltins[stmt.Command.Name()]; ok {
		return builtin.Main(s, stmt.Command)
	}

	s.record(logger.EventRunCommand, logger.Fields{
		"command": logger.StringList(stmt.Command),
		"mode":    stmt.Mode.String(),
	})
	outcome, err := s.launcher.Run(stmt.Command, stmt.Mode)
	return s.finish(stmt.Command, outcome, err)
}

// finish reports a launch result and converts it to a status.
func (s *Shell) finish(argv shell.Command, outcome proc.Outcome, err error) int {
	if err != nil {
		s.report(err)
		s.record(errorEvent(err), logger.Fields{
			"command": logger.StringList(argv),
			"error":   err.Error(),
		})
		if outcome.Status != 0 {
			return outcome.Status
		}
		return 1
	}

	if outcome.Background {
		s.record(logger.EventBackgroundLaunch, logger.Fields{
			"command": logger.StringList(argv),
			"pid":     outcome.Pid,
		})
		return 0
	}

	s.record(logger.EventExitStatus, logger.Fields{
		"command": logger.StringList(argv),
		"pid":     outcome.Pid,
		"status":  outcome.Status,
	})
	return outcome.Status
}

// report prints err. Program failures name the program, everything else is
// prefixed with the shell's name.
func (s *Shell) report(err error) {
	var execErr *proc.ExecError
	if errors.As(err, &execErr) {
		fmt.Fprintln(s.stderr, s.colors.Error(err.Error()))
		return
	}
	fmt.Fprintln(s.stderr, s.colors.Errorf("smallsh: %v", err))
}

// Terminate ends the shell after an interrupt or quit signal that arrived
// with no foreground job. It may be called from any goroutine, only the
// first call has an effect.
func (s *Shell) Terminate(sig os.Signal) {
	s.terminateOnce.Do(func() {
		fmt.Fprintf(s.stdout, "\n%s\n", s.colors.Warn("smallsh is terminated by "+signalName(sig)))
		s.record(logger.EventInterrupt, logger.Fields{
			"signal": signalName(sig),
			"from":   proc.Idle.String(),
			"to":     "terminated",
		})
		s.stop()
		if s.reader != nil {
			s.reader.Close()
		}
		s.exit(1)
	})
}

func (s *Shell) record(event logger.EventType, fields logger.Fields) {
	if err := s.events.Record(event, fields); err != nil {
		log.Printf("couldn't record %s event: %v", event, err)
	}
}

func errorEvent(err error) logger.EventType {
	var (
		execErr *proc.ExecError
		pipeErr *proc.PipeError
	)
	switch {
	case errors.As(err, &execErr):
		return logger.EventExecError
	case errors.As(err, &pipeErr):
		return logger.EventPipeError
	default:
		return logger.EventSpawnError
	}
}

func signalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return name
		}
	}
	return sig.String()
}
