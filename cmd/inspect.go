package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var inspectFlags sessionFlags

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect TIMING_JSON",
	Short: "Print the bar table and voice colors of a score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(inspectFlags.options(cmd, args[0]))
		if err != nil {
			return err
		}
		defer s.Close()
		return inspect(cmd.OutOrStdout(), s)
	},
}

func init() {
	inspectFlags.register(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func inspect(w io.Writer, s *session) error {
	st := s.engine.Stats()
	mapper := s.engine.Mapper()

	fmt.Fprintln(w, headerStyle.Render("Score"))
	fmt.Fprintf(w, "  %s\n", s.summary())
	fmt.Fprintf(w, "  %.4fs per tick, %d unresolved hrefs\n\n", mapper.SecondsPerTick(), st.UnresolvedHrefs)

	fmt.Fprintln(w, headerStyle.Render("Voices"))
	channels := maps.Keys(st.Colors)
	slices.Sort(channels)
	for _, ch := range channels {
		slot := st.Colors[ch]
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.palette.Hex(slot))).Render("■")
		fmt.Fprintf(w, "  channel %-3d %s %s %s\n", ch, swatch, palette.Class(slot), dimStyle.Render(s.palette.Hex(slot)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Bars"))
	for _, b := range s.engine.Bars() {
		fmt.Fprintf(w, "  %4d  %8.3fs  %s\n", b.BarNumber, b.StartTime, dimStyle.Render(fmt.Sprintf("%d elements", len(b.Elements))))
	}
	return nil
}
