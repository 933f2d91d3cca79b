package core

import (
	"fmt"
	"os"
	"sort"

	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the sorted names of all builtins.
func BuiltinNames() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin. Without a directory it changes to $HOME,
// arguments after the directory are ignored.
func Cd(s *Shell, args []string) int {
	dir := os.Getenv(EnvHome)
	if len(args) > 1 {
		dir = args[1]
	}

	if err := s.chdir(dir); err != nil {
		fmt.Fprintln(s.stderr, s.colors.Errorf("%s: %v", args[0], err))
		s.record(logger.EventDirectoryChange, logger.Fields{
			"dir":   dir,
			"error": err.Error(),
		})
		return 1
	}

	s.record(logger.EventDirectoryChange, logger.Fields{"dir": dir})
	return 0
}

// Exit quits the shell
func Exit(s *Shell, args []string) int {
	s.stop()
	return 0
}

func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	if *clear {
		if s.clearHistory != nil {
			s.clearHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.stdout, "% 5d  %s\n", i+1, line)
	}
	return 0
}

func Help(s *Shell, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, s.colors.Title("smallsh"))
	fmt.Fprintln(w, "Commands are separated by ';', a trailing '&' runs a command in the background.")
	fmt.Fprintln(w, "Two commands may be joined with '|'. Interrupt a running command twice to stop it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)

	for _, name := range BuiltinNames() {
		fmt.Fprintln(w, s.colors.Info(name))
	}

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
