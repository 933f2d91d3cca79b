package cmd

import (
	"fmt"

	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"sigs.k8s.io/yaml"
)

var tailLines int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		report := logger.NewReport()
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

var tailCommand = &cobra.Command{
	Use:   "tail",
	Short: "Show the most recent events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		var entries []*logger.LogEntry
		err = logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			entries = append(entries, le)
			if tailLines > 0 && len(entries) > tailLines {
				entries = entries[1:]
			}
		})
		if err != nil {
			return err
		}

		for _, le := range entries {
			line, err := protojson.Marshal(le)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(line))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(tailCommand)

	tailCommand.Flags().IntVarP(&tailLines, "lines", "n", 10, "number of events to show, 0 shows all")
}
