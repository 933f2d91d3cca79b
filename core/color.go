package core

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/mattn/go-isatty"
)

// ColorPrinter decorates user facing messages according to the configured
// color mode.
type ColorPrinter struct {
	enabled bool

	warn  *color.Color
	err   *color.Color
	info  *color.Color
	title *color.Color
}

// NewColorPrinter creates a printer for output written to w. In auto mode
// color is used only if w is a terminal.
func NewColorPrinter(mode string, w io.Writer) *ColorPrinter {
	c := &ColorPrinter{
		enabled: ShouldColor(mode, w),
		warn:    color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		info:    color.New(color.FgCyan),
		title:   color.New(color.FgBlue, color.Bold),
	}

	for _, col := range []*color.Color{c.warn, c.err, c.info, c.title} {
		if c.enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

// ShouldColor reports whether output to w is colored in the given mode.
func ShouldColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		f, ok := w.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
}

// Enabled reports whether the printer emits color codes.
func (c *ColorPrinter) Enabled() bool {
	return c.enabled
}

func (c *ColorPrinter) Warn(s string) string {
	return c.warn.Sprint(s)
}

func (c *ColorPrinter) Error(s string) string {
	return c.err.Sprint(s)
}

func (c *ColorPrinter) Info(s string) string {
	return c.info.Sprint(s)
}

func (c *ColorPrinter) Title(s string) string {
	return c.title.Sprint(s)
}

// Errorf formats an error line.
func (c *ColorPrinter) Errorf(format string, a ...interface{}) string {
	return c.Error(fmt.Sprintf(format, a...))
}
