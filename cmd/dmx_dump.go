package cmd

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/nickysemenza/gola"
	"github.com/robmorgan/scorefollow/config"
	"github.com/spf13/cobra"
)

var (
	dumpOLA      string
	dumpUniverse int
)

var dmxDumpCmd = &cobra.Command{
	Use:   "dmx-dump",
	Short: "Print the current DMX values of a universe from OLA",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := gola.New(dumpOLA)
		if err != nil {
			return errors.WithStackTrace(err)
		}
		defer client.Close()

		x, err := client.GetDmx(dumpUniverse)
		if err != nil {
			return errors.WithStackTrace(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "universe %d: %v\n", dumpUniverse, x.Data)
		return nil
	},
}

func init() {
	dmxDumpCmd.Flags().StringVar(&dumpOLA, "ola", config.DefaultOLAAddress, "OLA RPC address")
	dmxDumpCmd.Flags().IntVar(&dumpUniverse, "universe", 1, "universe to dump")
	rootCmd.AddCommand(dmxDumpCmd)
}
