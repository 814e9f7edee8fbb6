package cmd

import (
	"github.com/spf13/cobra"
)

// sessionFlags are shared by the commands that build a session.
type sessionFlags struct {
	show     string
	audio    string
	duration float64
	lead     float64
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.show, "config", "c", "", "show file (YAML) with playback settings and outputs")
	cmd.Flags().StringVarP(&f.audio, "audio", "a", "", "recording to play (WAV or MP3); simulated when empty")
	cmd.Flags().Float64VarP(&f.duration, "duration", "d", 0, "length of the recording in seconds")
	cmd.Flags().Float64Var(&f.lead, "lead", 0, "visual lead time in seconds")
}

// options turns the flags into session options. Only flags given on the command line override the show file.
func (f *sessionFlags) options(cmd *cobra.Command, timingPath string) sessionOptions {
	opts := sessionOptions{TimingPath: timingPath, ShowPath: f.show, AudioPath: f.audio}
	if cmd.Flags().Changed("duration") {
		d := f.duration
		opts.Duration = &d
	}
	if cmd.Flags().Changed("lead") {
		l := f.lead
		opts.Lead = &l
	}
	return opts
}
