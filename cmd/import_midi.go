package cmd

import (
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/scorefollow/score"
	"github.com/robmorgan/scorefollow/score/midi"
	"github.com/spf13/cobra"
)

var importOpts midi.Options

var importMidiCmd = &cobra.Command{
	Use:   "import-midi MIDI_FILE TIMING_JSON",
	Short: "Convert a MIDI file into timing data",
	Long: `Convert a standard MIDI file into timing data. Every note gets a generated href of the form
<prefix>t<track>-n<index> and bars are laid out from the time signatures of the file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importMidi(args[0], args[1], importOpts)
	},
}

func init() {
	importMidiCmd.Flags().Float64Var(&importOpts.MusicStartSeconds, "music-start", 0, "offset of the first tick into the recording, in seconds")
	importMidiCmd.Flags().StringVar(&importOpts.HrefPrefix, "href-prefix", "", "prefix for generated note hrefs")
	rootCmd.AddCommand(importMidiCmd)
}

func importMidi(in, out string, opts midi.Options) error {
	td, err := midi.ImportFile(in, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	if err := score.Write(f, td); err != nil {
		f.Close()
		return err
	}
	return errors.WithStackTrace(f.Close())
}
