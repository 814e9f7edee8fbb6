package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererWritesTransitions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRenderer(&buf, palette.Default(), []Rule{{Type: RuleBold}, {Type: "sparkle"}})
	r.SetTimeSource(func() float64 { return 1.5 })

	note := r.ElementsFor("t0-n1")
	require.Len(t, note, 1)
	note[0].(marker.Colorable).SetColorSlot(palette.BassSlot)
	note[0].SetActive(true)
	note[0].SetActive(false)

	bar := r.BarElements(2)
	bar[0].SetVisible(true)
	bar[0].SetVisible(false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1.50s")
	assert.Contains(t, lines[0], "● t0-n1")
	assert.Contains(t, lines[1], "○ t0-n1")
	assert.Contains(t, lines[2], "bar 2")
	assert.Equal(t, 3, r.Lines())
}

func TestRendererReusesElements(t *testing.T) {
	t.Parallel()

	r := NewRenderer(&bytes.Buffer{}, palette.Default(), nil)
	assert.Same(t, r.ElementsFor("a")[0], r.ElementsFor("a")[0])
	assert.Same(t, r.BarElements(1)[0], r.BarElements(1)[0])
	assert.NotSame(t, r.ElementsFor("a")[0], r.ElementsFor("b")[0])
}

func TestQuietRuleHidesReleases(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRenderer(&buf, palette.Default(), []Rule{{Type: RuleQuiet}})
	el := r.ElementsFor("n")[0]
	el.SetActive(true)
	el.SetActive(false)

	assert.Equal(t, 1, r.Lines())
	assert.NotContains(t, buf.String(), "○")
}
