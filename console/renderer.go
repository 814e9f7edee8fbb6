// Package console is a line-oriented visual backend: every note and bar transition is written to a
// terminal, colored by voice.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/marker"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/sirupsen/logrus"
)

// Rule types understood by the renderer.
const (
	RuleBold      = "bold"
	RuleUnderline = "underline"
	RuleReverse   = "reverse"
	RuleBlink     = "blink"
	RuleQuiet     = "quiet"
)

// Rule adds a text effect to highlighted notes.
type Rule struct {
	Type string `yaml:"type"`
}

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	offStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true)
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// Renderer is a marker.Resolver whose elements print their transitions. Every href resolves.
type Renderer struct {
	log     *logrus.Entry
	palette palette.Palette
	quiet   bool
	base    lipgloss.Style

	mu       sync.Mutex
	out      io.Writer
	now      func() float64
	elements map[string]*element
	bars     map[int]*element
	lines    int
}

var _ marker.Resolver = (*Renderer)(nil)

// NewRenderer creates a renderer writing to out. Rules of an unknown type are logged and skipped.
func NewRenderer(out io.Writer, p palette.Palette, rules []Rule) *Renderer {
	r := &Renderer{
		log:      logger.GetProjectLogger().WithField("backend", "console"),
		palette:  p,
		base:     lipgloss.NewStyle(),
		out:      out,
		elements: make(map[string]*element),
		bars:     make(map[int]*element),
	}

	for _, rule := range rules {
		switch rule.Type {
		case RuleBold:
			r.base = r.base.Bold(true)
		case RuleUnderline:
			r.base = r.base.Underline(true)
		case RuleReverse:
			r.base = r.base.Reverse(true)
		case RuleBlink:
			r.base = r.base.Blink(true)
		case RuleQuiet:
			r.quiet = true
		default:
			r.log.WithField("rule", rule.Type).Warn("Skipping unknown highlight rule")
		}
	}
	return r
}

// SetTimeSource prefixes every line with the value of now, in seconds.
func (r *Renderer) SetTimeSource(now func() float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Lines returns the number of lines written so far.
func (r *Renderer) Lines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines
}

func (r *Renderer) ElementsFor(href string) []marker.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.elements[href]
	if !ok {
		e = &element{renderer: r, label: href}
		r.elements[href] = e
	}
	return []marker.Element{e}
}

func (r *Renderer) BarElements(bar int) []marker.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.bars[bar]
	if !ok {
		e = &element{renderer: r, label: fmt.Sprintf("bar %d", bar), bar: true}
		r.bars[bar] = e
	}
	return []marker.Element{e}
}

func (r *Renderer) noteStyle(slot int) lipgloss.Style {
	return r.base.Copy().Foreground(lipgloss.Color(r.palette.Hex(slot)))
}

func (r *Renderer) println(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.now != nil {
		text = timeStyle.Render(fmt.Sprintf("[%7.2fs]", r.now())) + " " + text
	}
	if _, err := fmt.Fprintln(r.out, text); err != nil {
		r.log.WithError(err).Debug("Could not write line")
		return
	}
	r.lines++
}

type element struct {
	renderer *Renderer
	label    string
	bar      bool
	slot     int
}

var _ marker.Colorable = (*element)(nil)

func (e *element) SetColorSlot(slot int) {
	e.slot = slot
}

func (e *element) SetActive(active bool) {
	r := e.renderer
	switch {
	case active:
		r.println(r.noteStyle(e.slot).Render("● " + e.label))
	case !r.quiet:
		r.println(offStyle.Render("○ " + e.label))
	}
}

func (e *element) SetVisible(visible bool) {
	if !visible {
		return
	}
	e.renderer.println(barStyle.Render("── " + e.label + " ──"))
}
