// Command demo drives a TTYDevice, Compositor, and input Decoder together
// against a real terminal: it renders a counter that increments once a
// second, reacts to Ctrl+C per the configured CtrlCBehavior, and reflows
// on resize, generalizing the teacher's cmd/example1_hello and
// cmd/example2_counter wiring (AhnafCodes-basementui go/cmd) from the
// reactive-signal framework onto the compositor directly.
package main

import (
	"fmt"
	"os"
	"time"

	"tcore/buffer"
	"tcore/config"
	"tcore/input"
	"tcore/log"
	"tcore/screen"
	"tcore/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	sink := log.NewStderrSink()
	opts := config.Defaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	device, err := term.NewTTYDevice(os.Stdin, os.Stdout, term.TTYOptions{
		Sink:              sink,
		CatchSpecialChars: opts.CatchSpecialCharacters,
	})
	if err != nil {
		return err
	}
	defer device.Dispose()

	size, err := device.Size()
	if err != nil {
		return err
	}

	decoder := input.NewDecoder(os.Stdin, input.QuarterSeconds(2), sink)
	comp := screen.New(device, size, opts.DefaultCharacter, opts.TabBehavior, decoder, sink)
	if err := comp.Start(); err != nil {
		return err
	}
	defer comp.Stop()

	vs := screen.NewVirtualScreen(comp, opts.MinimumSize, opts.DefaultCharacter, opts.TabBehavior, opts.ScrollOnCtrl)

	count := 0
	draw := func() {
		comp.Clear()
		title := "demo counter"
		for i, r := range title {
			vs.SetCharacter(2+i, 1, buffer.NewStyledChar(r).WithForeground(buffer.RGB(120, 200, 255)))
		}
		line := fmt.Sprintf("count: %d  (q to quit)", count)
		for i, r := range line {
			vs.SetCharacter(2+i, 3, buffer.NewStyledChar(r))
		}
		vs.Render()
		if err := comp.Refresh(screen.Automatic); err != nil {
			sink.Error("demo: refresh failed", err)
		}
	}
	draw()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	quit := make(chan struct{})
	killed := false
	go func() {
		for {
			ev, err := decoder.Read()
			if err != nil {
				close(quit)
				return
			}
			if vs.HandleInput(ev) {
				draw()
				continue
			}
			switch {
			case ev.Kind == input.KeyCharacter && ev.Character == 'q':
				close(quit)
				return
			case ev.Kind == input.KeyCharacter && ev.Character == 'c' && ev.Modifiers.Has(input.ModCtrl):
				if opts.CtrlCBehavior == config.CtrlCKillsApplication {
					killed = true
					close(quit)
					return
				}
			}
		}
	}()

	for {
		select {
		case <-quit:
			if killed {
				// run's deferred Stop/Dispose restore the tty before
				// main exits with status 1.
				return fmt.Errorf("interrupted by Ctrl+C")
			}
			return nil
		case <-ticker.C:
			count++
			if newSize, resized := comp.DoResizeIfNecessary(); resized {
				vs.ResyncLogicalSize()
				sink.Warn("demo: resized", "columns", newSize.Columns, "rows", newSize.Rows)
			}
			draw()
		}
	}
}
