package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/smallsh/core"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/proc"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	command  string
	exitCode int
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "smallsh")
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Couldn't load config from %s: fix it or remove it to use the defaults", cfgPath)
	}

	return configuration, err
}

// openEvents opens the session event log if the configuration enables it.
func openEvents(configuration *config.Configuration) (*logger.SessionLogger, func(), error) {
	if !configuration.EventLog {
		return nil, func() {}, nil
	}

	if err := os.MkdirAll(configuration.Dir(), 0700); err != nil {
		return nil, nil, err
	}
	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}

	events := logger.NewJsonLinesLogRecorder(fd).NewSession()
	return events, func() { fd.Close() }, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell",
	Long: `A small interactive shell with background jobs, two-stage pipelines
and a double interrupt to stop the foreground command.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeEvents, err := openEvents(configuration)
		if err != nil {
			return fmt.Errorf("couldn't open event log: %w", err)
		}
		defer closeEvents()

		signals := proc.NewOSSignals()
		defer signals.Stop()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		opts := core.Options{
			Config:  configuration,
			Stdin:   cmd.InOrStdin(),
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
			Signals: signals,
			Events:  events,
		}

		if cmd.Flags().Changed("command") {
			sh := core.NewShell(opts)
			go proc.Dispatch(ctx, signals.C(), sh.Controller())
			exitCode = sh.RunLine(command)
			return nil
		}

		// Piped input is read without buffering so foreground commands get
		// the lines after theirs.
		if f, ok := cmd.InOrStdin().(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
			opts.Reader = core.NewByteLineReader(cmd.InOrStdin())
			sh := core.NewShell(opts)
			go proc.Dispatch(ctx, signals.C(), sh.Controller())
			exitCode = sh.Run()
			return nil
		}

		rlConfig := &readline.Config{
			Stdin:       readline.NewCancelableStdin(os.Stdin),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
			HistoryFile: configuration.HistoryPath(),
		}
		if err := rlConfig.Init(); err != nil {
			return err
		}

		rl, err := readline.NewEx(rlConfig)
		if err != nil {
			return err
		}
		defer rl.Close()

		opts.Reader = rl
		opts.ClearHistory = func() {
			rl.Operation.ResetHistory()
		}

		sh := core.NewShell(opts)
		go proc.Dispatch(ctx, signals.C(), sh.Controller())
		exitCode = sh.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single line and exit with its status")
}
