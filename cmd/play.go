package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

var playFlags sessionFlags

var playCmd = &cobra.Command{
	Use:   "play TIMING_JSON",
	Short: "Play a recording and follow its score",
	Long: `Play a recording and follow its score in the terminal and on the configured outputs.
Without --audio the recording is simulated, which needs --duration or a show file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := playFlags.options(cmd, args[0])
		opts.Console = cmd.OutOrStdout()
		return play(cmd.Context(), opts)
	},
}

func init() {
	playFlags.register(playCmd)
	rootCmd.AddCommand(playCmd)
}

func play(ctx context.Context, opts sessionOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	wg := &sync.WaitGroup{}
	s.start(ctx, clock.RealClock{}, wg)

	s.log.WithField("score", s.summary()).Info("Starting playback")
	s.transport.Play()

	select {
	case <-s.ended.Done():
		s.log.Info("Recording finished")
	case <-ctx.Done():
		s.log.Info("Interrupted")
		s.transport.Pause()
	}

	stop()
	wg.Wait()
	return nil
}
