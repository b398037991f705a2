package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/parleyio/parley"
	"github.com/parleyio/parley/internal/presentation/tui"
)

// RunWatch plays the named dialogue and replays it from the top every
// time a dialogue file in dir changes, until interrupted.
func RunWatch(dir, name string, opts PlayOptions) error {
	logger := createLogger(opts.Debug)

	engine, err := parley.New(dir, parley.WithLogger(logger), parley.WithStrict(opts.Strict))
	if err != nil {
		return err
	}

	plain := opts.Plain || !term.IsTerminal(int(os.Stdout.Fd()))
	printer := tui.NewPrinter(plain)
	printer.Banner(parley.Version)
	fmt.Printf("watching %s, ctrl-c to stop\n\n", dir)

	sc := NewSignalContext(context.Background())
	defer sc.Cancel()

	changes, err := engine.Watch(sc)
	if err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	for {
		if err := playOnce(engine, name, printer, in); err != nil {
			printer.Error(err)
		}

		fmt.Println("\nwaiting for changes...")
		select {
		case <-sc.Done():
			if sig := sc.Signal(); sig != nil {
				fmt.Printf("\nstopped by %v\n", sig)
			}
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Println("change detected, replaying")
		}
	}
}

func playOnce(engine *parley.Engine, name string, printer *tui.Printer, in *bufio.Reader) error {
	sess, err := engine.Start(name)
	if err != nil {
		return err
	}
	if err := playSession(sess, printer, in); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
