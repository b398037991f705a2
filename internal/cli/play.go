package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/parleyio/parley"
	"github.com/parleyio/parley/internal/adapters/audio"
	"github.com/parleyio/parley/internal/presentation/tui"
	"github.com/parleyio/parley/pkg/session"
)

// PlayOptions configures an interactive run.
type PlayOptions struct {
	Debug  bool
	Plain  bool
	Strict bool
}

// RunPlay plays the named dialogue from dir interactively on the
// terminal until it finishes or the player quits.
func RunPlay(dir, name string, opts PlayOptions) error {
	logger := createLogger(opts.Debug)

	engineOpts := []parley.Option{
		parley.WithLogger(logger),
		parley.WithAudio(audio.NewLogPlayer(logger)),
		parley.WithStrict(opts.Strict),
	}
	engine, err := parley.New(dir, engineOpts...)
	if err != nil {
		return err
	}

	// Styling is dropped when stdout is piped somewhere.
	plain := opts.Plain || !term.IsTerminal(int(os.Stdout.Fd()))
	printer := tui.NewPrinter(plain)
	printer.Banner(parley.Version)

	sess, err := engine.Start(name)
	if err != nil {
		return err
	}

	return playSession(sess, printer, bufio.NewReader(os.Stdin))
}

// playSession runs the advance/select loop against a session.
func playSession(sess *session.Session, printer *tui.Printer, in *bufio.Reader) error {
	var offered []session.ChoiceLine

	for !sess.Finished() {
		var (
			events []session.Event
			err    error
		)

		if sess.AwaitingChoice() {
			choice, quit, readErr := readChoice(printer, in, offered)
			if readErr != nil {
				return readErr
			}
			if quit {
				return nil
			}
			events, err = sess.Select(choice)
		} else {
			events, err = sess.Advance()
		}
		if err != nil {
			printer.Error(err)
			return err
		}

		for _, ev := range events {
			switch ev.Kind {
			case session.EventLine:
				printer.Line(ev.Line)
			case session.EventChoices:
				offered = ev.Choices
				printer.Choices(offered)
			case session.EventFinished:
				printer.Finished()
			}
		}

		// Pace plain lines like a click-through dialogue box.
		if !sess.Finished() && !sess.AwaitingChoice() {
			if quit, err := waitForEnter(in); err != nil || quit {
				return err
			}
		}
	}
	return nil
}

// readChoice prompts until the player enters a listed option number or
// a quit command.
func readChoice(printer *tui.Printer, in *bufio.Reader, offered []session.ChoiceLine) (int, bool, error) {
	for {
		printer.Prompt()

		text, err := in.ReadString('\n')
		if err != nil {
			return 0, true, err
		}
		text = strings.TrimSpace(text)

		if text == "exit" || text == "quit" {
			return 0, true, nil
		}

		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= len(offered) {
			return offered[n-1].Option, false, nil
		}
		fmt.Printf("enter a number between 1 and %d\n", len(offered))
	}
}

func waitForEnter(in *bufio.Reader) (bool, error) {
	text, err := in.ReadString('\n')
	if err != nil {
		return true, err
	}
	text = strings.TrimSpace(text)
	return text == "exit" || text == "quit", nil
}
