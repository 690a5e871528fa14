package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sergev/lox/config"
	"github.com/sergev/lox/runtime"
)

var (
	errorColor = lipgloss.Color("#EF4444")
	mutedColor = lipgloss.Color("#6B7280")
)

// reporter prints diagnostics and runtime errors. When styled, the line
// marker and the message are coloured separately; the text is the same
// either way.
type reporter struct {
	out    io.Writer
	styled bool

	errorStyle lipgloss.Style
	lineStyle  lipgloss.Style
}

func newReporter(out io.Writer, mode config.ColorMode, interactive bool) *reporter {
	renderer := lipgloss.NewRenderer(out)
	switch mode {
	case config.ColorAlways:
		if renderer.ColorProfile() == termenv.Ascii {
			renderer.SetColorProfile(termenv.ANSI256)
		}
	case config.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	styled := mode == config.ColorAlways ||
		(mode == config.ColorAuto && interactive && renderer.ColorProfile() != termenv.Ascii)

	return &reporter{
		out:    out,
		styled: styled,
		errorStyle: renderer.NewStyle().
			Foreground(errorColor).
			TabWidth(lipgloss.NoTabConversion),
		lineStyle: renderer.NewStyle().
			Foreground(mutedColor),
	}
}

func (r *reporter) report(res runtime.Result) {
	if !r.styled {
		res.Report(r.out)
		return
	}
	for _, d := range res.Diagnostics {
		marker := fmt.Sprintf("[line %d]", d.Line)
		text := fmt.Sprintf("Error%s: %s", d.Where, d.Message)
		fmt.Fprintln(r.out, r.lineStyle.Render(marker)+" "+r.errorStyle.Render(text))
	}
	if e := res.RuntimeErr; e != nil {
		fmt.Fprintln(r.out, r.errorStyle.Render(e.Message))
		fmt.Fprintln(r.out, r.lineStyle.Render(fmt.Sprintf("[line %d]", e.Token.Line)))
	}
}
