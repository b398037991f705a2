// Package tui renders dialogue output for the interactive terminal
// player. Styling degrades gracefully on dumb terminals via termenv.
package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/parleyio/parley/pkg/session"
)

// Printer styles dialogue events for a terminal.
type Printer struct {
	profile termenv.Profile
	plain   bool
}

// NewPrinter creates a printer using the detected color profile.
// With plain set, all styling is skipped.
func NewPrinter(plain bool) *Printer {
	return &Printer{
		profile: termenv.ColorProfile(),
		plain:   plain,
	}
}

// Banner prints the player banner with the given version.
func (p *Printer) Banner(version string) {
	if p.plain {
		fmt.Printf("parley %s\n\n", version)
		return
	}

	title := termenv.String("  parley").Foreground(p.profile.Color("#a78bfa")).Bold()
	sub := termenv.String("  dialogue player " + version).Foreground(p.profile.Color("#818cf8"))
	fmt.Println()
	fmt.Println(title)
	fmt.Println(sub)
	fmt.Println()
}

// Line prints a spoken dialogue line.
func (p *Printer) Line(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if p.plain {
		fmt.Println(text)
		return
	}
	fmt.Println(termenv.String(text).Foreground(p.profile.Color("#e5e7eb")))
}

// Choices prints the numbered options of a choice prompt.
func (p *Printer) Choices(choices []session.ChoiceLine) {
	for i, c := range choices {
		label := fmt.Sprintf("  %d) %s", i+1, c.Text)
		if p.plain {
			fmt.Println(label)
			continue
		}
		fmt.Println(termenv.String(label).Foreground(p.profile.Color("#34d399")))
	}
}

// Prompt prints the input prompt without a trailing newline.
func (p *Printer) Prompt() {
	if p.plain {
		fmt.Print("> ")
		return
	}
	fmt.Print(termenv.String("> ").Foreground(p.profile.Color("#fbbf24")).Bold())
}

// Finished prints the end-of-conversation marker.
func (p *Printer) Finished() {
	if p.plain {
		fmt.Println("--- end ---")
		return
	}
	fmt.Println(termenv.String("--- end ---").Foreground(p.profile.Color("#9ca3af")).Italic())
}

// Error prints an error line.
func (p *Printer) Error(err error) {
	msg := "error: " + err.Error()
	if p.plain {
		fmt.Println(msg)
		return
	}
	fmt.Println(termenv.String(msg).Foreground(p.profile.Color("#f87171")))
}
