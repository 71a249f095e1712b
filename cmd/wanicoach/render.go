package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle  = lipgloss.NewStyle().Faint(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	thoughtStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	foldStyle    = lipgloss.NewStyle().Faint(true).Bold(true)
)

// thoughtPanel renders the model's reasoning feed. While the model is
// thinking, thought text streams in dimmed; the first answer fragment
// folds the feed into a one-line summary. The fold is one-way: thoughts
// arriving afterwards are counted but never re-open the feed.
type thoughtPanel struct {
	w           io.Writer
	printed     int // bytes of thought text already written
	total       int // bytes of thought text seen, including post-fold
	headerShown bool
	folded      bool
}

func newThoughtPanel(w io.Writer) *thoughtPanel {
	return &thoughtPanel{w: w}
}

// Update receives the full accumulated thought text and prints only the
// unseen suffix.
func (p *thoughtPanel) Update(thoughts string) {
	p.total = len(thoughts)
	if p.folded {
		return
	}
	if !p.headerShown {
		fmt.Fprintln(p.w, foldStyle.Render("Thinking…"))
		p.headerShown = true
	}
	fmt.Fprint(p.w, thoughtStyle.Render(thoughts[p.printed:]))
	p.printed = len(thoughts)
}

// Fold collapses the feed to a summary line. Safe to call more than once;
// only the first call prints.
func (p *thoughtPanel) Fold() {
	if p.folded {
		return
	}
	p.folded = true
	if p.headerShown {
		fmt.Fprintln(p.w)
	}
	fmt.Fprintln(p.w, foldStyle.Render(fmt.Sprintf("— thoughts folded (%d bytes) —", p.printed)))
}
