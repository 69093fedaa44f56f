//go:build unix

package term

import (
	"bufio"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	xterm "golang.org/x/term"

	"tcore/buffer"
	"tcore/errs"
	"tcore/log"
)

// TTYDevice is the Device implementation for a real terminal, generalizing
// the teacher's tui.Screen output half (AhnafCodes-basementui
// go/tui/screen.go NewScreen/Close/renderUnlocked) into the narrow Device
// contract of spec.md §4.3, with the raw-mode state machine split out
// into rawmode.go and the ANSI sequence strings shared with
// virtualdevice.go via ansi.go.
type TTYDevice struct {
	in  *os.File
	out *os.File

	mu sync.Mutex // guards w: one logical write (full sequence/cell) at a time, spec.md §4.3 rule (a)
	w  *bufio.Writer

	raw     *ttyRawMode
	charset Charset
	colors  int
	sink    log.Sink

	inAltScreen  bool
	cursorShown  bool
	cursorPos    buffer.Position
	lastFG       buffer.Color
	lastBG       buffer.Color
	lastModifier buffer.StyleModifier

	registry *resizeRegistry
	lastSize buffer.Size

	resizeCh      chan os.Signal
	doneCh        chan struct{}
	workerWG      sync.WaitGroup
	shutdownToken ListenerHandle

	disposeOnce sync.Once
	disposed    bool
}

// TTYOptions configures a new TTYDevice; the zero value gives a UTF-8
// charset, 256 colors, a 500ms resize poll and the default stderr sink.
// CatchSpecialChars defaults to false, which leaves signal generation
// (ISIG) on, so Ctrl-C still raises SIGINT instead of arriving as a byte.
type TTYOptions struct {
	Charset            Charset
	Colors             int
	CatchSpecialChars  bool
	Sink               log.Sink
	ResizePollInterval time.Duration
}

// NewTTYDevice wires in and out to a live tty, saving the current tty
// settings and switching in to raw mode (a failure there is only logged)
// — callers must still call EnterAlternateScreen to start drawing.
func NewTTYDevice(in, out *os.File, opts TTYOptions) (*TTYDevice, error) {
	if opts.Sink == nil {
		opts.Sink = log.NewStderrSink()
	}
	if opts.Charset == "" {
		opts.Charset = CharsetUTF8
	}
	if opts.Colors == 0 {
		opts.Colors = 256
	}
	if opts.ResizePollInterval == 0 {
		opts.ResizePollInterval = 500 * time.Millisecond
	}

	d := &TTYDevice{
		in:       in,
		out:      out,
		w:        bufio.NewWriterSize(out, 64*1024),
		raw:      newTTYRawMode(int(in.Fd())),
		charset:  opts.Charset,
		colors:   opts.Colors,
		sink:     opts.Sink,
		doneCh:   make(chan struct{}),
		registry: newResizeRegistry(opts.Sink),
	}

	if err := d.raw.Acquire(opts.CatchSpecialChars); err != nil {
		opts.Sink.Warn("failed to enable raw mode", "err", err)
	}

	size, _ := d.Size()
	d.lastSize = size

	d.resizeCh = make(chan os.Signal, 1)
	signal.Notify(d.resizeCh, syscall.SIGWINCH)
	d.workerWG.Add(1)
	go d.resizeWorker(opts.ResizePollInterval)

	d.shutdownToken = globalShutdown.register(func() { _ = d.Dispose() })

	return d, nil
}

// resizeWorker samples the real size on SIGWINCH and on a coarse poll
// interval (belt-and-braces: some terminals/emulators do not deliver
// SIGWINCH reliably through nested multiplexers), generalizing the
// teacher's signal.Notify(SIGWINCH) + goroutine pattern
// (AhnafCodes-basementui go/tui/screen.go handleResize).
func (d *TTYDevice) resizeWorker(interval time.Duration) {
	defer d.workerWG.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.doneCh:
			return
		case <-d.resizeCh:
			d.checkResize()
		case <-ticker.C:
			d.checkResize()
		}
	}
}

func (d *TTYDevice) checkResize() {
	size, err := d.Size()
	if err != nil {
		return
	}
	if size != d.lastSize {
		d.lastSize = size
		d.registry.notify(size)
	}
}

func (d *TTYDevice) write(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.w.WriteString(s)
	if err != nil {
		return errs.DeviceIO("write to terminal", err)
	}
	return nil
}

// EnterAlternateScreen implements Device.
func (d *TTYDevice) EnterAlternateScreen() error {
	if d.inAltScreen {
		return errs.InvalidState("already inside the alternate screen")
	}
	if err := d.write(seqEnterAltScreen); err != nil {
		return err
	}
	d.inAltScreen = true
	return d.Flush()
}

// LeaveAlternateScreen implements Device.
func (d *TTYDevice) LeaveAlternateScreen() error {
	if !d.inAltScreen {
		return errs.InvalidState("not inside the alternate screen")
	}
	if err := d.write(seqLeaveAltScreen); err != nil {
		return err
	}
	d.inAltScreen = false
	return d.Flush()
}

// Clear implements Device.
func (d *TTYDevice) Clear() error {
	return d.write(seqClearScreen)
}

// Flush implements Device.
func (d *TTYDevice) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.w.Flush(); err != nil {
		return errs.DeviceIO("flush", err)
	}
	return nil
}

// Dispose implements Device. It is idempotent.
func (d *TTYDevice) Dispose() error {
	d.disposeOnce.Do(func() {
		close(d.doneCh)
		signal.Stop(d.resizeCh)
		d.workerWG.Wait()

		if d.inAltScreen {
			_ = d.write(seqLeaveAltScreen)
		}
		_ = d.write(seqShowCursor)
		_ = d.Flush()

		if err := d.raw.Dispose(); err != nil {
			d.sink.Error("failed to restore tty settings", err)
		}
		globalShutdown.unregister(d.shutdownToken)
		d.disposed = true
	})
	return nil
}

// SetPosition implements Device.
func (d *TTYDevice) SetPosition(p buffer.Position) error {
	if err := d.write(seqMoveCursor(p)); err != nil {
		return err
	}
	d.cursorPos = p
	return nil
}

// Position implements Device.
func (d *TTYDevice) Position() buffer.Position { return d.cursorPos }

// SetVisible implements Device.
func (d *TTYDevice) SetVisible(visible bool) error {
	d.cursorShown = visible
	if visible {
		return d.write(seqShowCursor)
	}
	return d.write(seqHideCursor)
}

// PutChar implements Device.
func (d *TTYDevice) PutChar(r rune) error {
	return d.PutString(string(r))
}

// PutString implements Device. Box/arrow glyphs are translated to the
// VT100 alternate character set (bracketed by AltCharsetOn/AltCharsetOff)
// and everything else is encoded in the device's charset.
func (d *TTYDevice) PutString(s string) error {
	return d.putWithACS(s)
}

// putWithACS honors the VT100 fallback table for every charset, UTF-8
// included, since some terminals have no good Unicode rendering for these
// glyphs. Other runes are written as UTF-8 or, for any other charset,
// through EncodeString.
func (d *TTYDevice) putWithACS(s string) error {
	isUTF8 := d.charset == CharsetUTF8 || d.charset == ""
	inACS := false
	var out []byte
	for _, r := range s {
		if b, ok := ACSByte(r); ok {
			if !inACS {
				out = append(out, AltCharsetOn...)
				inACS = true
			}
			out = append(out, b)
			continue
		}
		if inACS {
			out = append(out, AltCharsetOff...)
			inACS = false
		}
		if !isUTF8 {
			out = append(out, EncodeString(d.charset, string(r))...)
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		out = append(out, buf[:n]...)
	}
	if inACS {
		out = append(out, AltCharsetOff...)
	}
	return d.write(string(out))
}

// SetForeground implements Device.
func (d *TTYDevice) SetForeground(c buffer.Color) error {
	if d.colors < (1 << 24) {
		c = c.NearestIndexed()
	}
	d.lastFG = c
	return d.write(seqSetForeground(c))
}

// SetBackground implements Device.
func (d *TTYDevice) SetBackground(c buffer.Color) error {
	if d.colors < (1 << 24) {
		c = c.NearestIndexed()
	}
	d.lastBG = c
	return d.write(seqSetBackground(c))
}

// EnableSGR implements Device.
func (d *TTYDevice) EnableSGR(m buffer.StyleModifier) error {
	d.lastModifier = d.lastModifier.Set(m)
	return d.write(seqEnableSGR(m))
}

// DisableSGR implements Device.
func (d *TTYDevice) DisableSGR(m buffer.StyleModifier) error {
	d.lastModifier = d.lastModifier.Clear(m)
	return d.write(seqDisableSGR(m))
}

// ResetSGR implements Device.
func (d *TTYDevice) ResetSGR() error {
	d.lastModifier = 0
	d.lastFG = buffer.Default()
	d.lastBG = buffer.Default()
	return d.write(seqResetSGR)
}

// Size implements Device, preferring the OS ioctl and falling back to
// the save-cursor/move/report/restore probing trick from spec.md §4.3.
func (d *TTYDevice) Size() (buffer.Size, error) {
	w, h, err := xterm.GetSize(int(d.out.Fd()))
	if err == nil && w > 0 && h > 0 {
		return buffer.NewSize(w, h)
	}
	return d.probeSize()
}

func (d *TTYDevice) probeSize() (buffer.Size, error) {
	if err := d.write(sizeProbeSequence); err != nil {
		return buffer.Size{}, err
	}
	if err := d.Flush(); err != nil {
		return buffer.Size{}, err
	}
	// Reading the report itself is the input decoder's job in the full
	// pipeline (CursorLocationReport, input/matchers_escape.go); a bare
	// Device has no independent read loop, so absent an ioctl this
	// degrades to the last known size.
	return d.lastSize, errs.DeviceIO("size probe requires an input decoder to read the report", nil)
}

// SupportsScrolling implements Device.
func (d *TTYDevice) SupportsScrolling() bool { return true }

// ScrollLines implements Device using a hardware scroll region.
func (d *TTYDevice) ScrollLines(first, last, distance int) error {
	if distance == 0 {
		return nil
	}
	if err := d.write(seqScrollRegion(first, last)); err != nil {
		return err
	}
	edge := last
	if distance < 0 {
		edge = first
	}
	if err := d.write(seqMoveCursor(buffer.Pos(d.cursorPos.Column, edge))); err != nil {
		return err
	}
	if err := d.write(seqScrollLines(distance)); err != nil {
		return err
	}
	return d.write(seqResetScrollRegion)
}

// Colors implements Device.
func (d *TTYDevice) Colors() int { return d.colors }

// AddResizeListener implements Device.
func (d *TTYDevice) AddResizeListener(l ResizeListener) ListenerHandle {
	return d.registry.add(l)
}

// RemoveResizeListener implements Device.
func (d *TTYDevice) RemoveResizeListener(h ListenerHandle) {
	d.registry.remove(h)
}
