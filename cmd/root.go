package cmd

import (
	"github.com/robmorgan/scorefollow/logger"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "scorefollow",
	Short: "Follow a score while its recording plays",
	Long: `scorefollow highlights the notes and bars of a score in step with a recording.
It drives a terminal view, DMX lighting and OSC peers from the same timing data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.SetLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log verbosity (debug, info, warn, error)")
}

// Execute runs the command line.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
