package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/robmorgan/scorefollow/config"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

var (
	serveFlags    sessionFlags
	serveAddr     string
	serveListen   string
	serveAutoplay bool
)

var serveCmd = &cobra.Command{
	Use:   "serve TIMING_JSON",
	Short: "Run the engine behind the status API and OSC transport control",
	Long: `Run the engine headless. The status API reports the current bar and notes, and the
transport is driven with OSC messages to /scorefollow/play, /scorefollow/pause and
/scorefollow/position.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd, serveFlags.options(cmd, args[0]))
	},
}

func init() {
	serveFlags.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", config.DefaultStatusAddr, "status API listen address")
	serveCmd.Flags().StringVar(&serveListen, "osc-listen", "127.0.0.1:9001", "OSC control listen address")
	serveCmd.Flags().BoolVar(&serveAutoplay, "autoplay", false, "start playback immediately")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, opts sessionOptions) error {
	ctx := cmd.Context()
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

	// flags win over the show file for the surfaces this command exists for
	if s.show.Outputs.Status == nil || cmd.Flags().Changed("addr") {
		s.show.Outputs.Status = &config.StatusOutput{Addr: serveAddr}
	}
	if s.show.Outputs.OSC == nil {
		s.show.Outputs.OSC = &config.OSCOutput{}
	}
	if s.show.Outputs.OSC.Listen == "" || cmd.Flags().Changed("osc-listen") {
		s.show.Outputs.OSC.Listen = serveListen
	}

	wg := &sync.WaitGroup{}
	s.start(ctx, clock.RealClock{}, wg)
	s.log.WithField("score", s.summary()).Info("Engine ready")

	if serveAutoplay {
		s.transport.Play()
	}

	<-ctx.Done()
	s.transport.Pause()
	wg.Wait()
	return nil
}
