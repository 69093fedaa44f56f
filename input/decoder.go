package input

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"tcore/log"
)

// AmbiguityTimeout is how long the decoder waits for more bytes before
// resolving an ambiguous match (most commonly: a lone ESC that might be
// the start of a CSI/SS3 sequence, or might just be the Escape key).
// spec.md §4.4 expresses this in quarter-seconds from 0 to 240 (60s); a
// value of 0 means resolve immediately in favour of the shortest
// interpretation.
type AmbiguityTimeout time.Duration

// QuarterSeconds builds an AmbiguityTimeout from a count of quarter-second
// units, clamped to the spec's 0-240 range.
func QuarterSeconds(n int) AmbiguityTimeout {
	if n < 0 {
		n = 0
	}
	if n > 240 {
		n = 240
	}
	return AmbiguityTimeout(time.Duration(n) * 250 * time.Millisecond)
}

// DefaultAmbiguityTimeout matches most terminal emulators' own ESC-prefix
// key-repeat delay.
const DefaultAmbiguityTimeout = AmbiguityTimeout(50 * time.Millisecond)

// Decoder turns a byte stream into KeyEvent/MouseEvent values. It reads
// from its source on a single dedicated goroutine — the underlying reader
// cannot safely be shared between a pending Read and a timeout-driven
// abandonment, so every byte crosses a channel instead of being pulled
// directly by whichever goroutine happens to call Read.
type Decoder struct {
	matchers []Matcher
	timeout  AmbiguityTimeout
	sink     log.Sink

	mu      sync.Mutex
	pending []byte

	// queue holds fully decoded events not yet handed back to a caller:
	// normal decode look-ahead, plus anything reinjected by
	// AwaitCursorReport after it skimmed past ordinary keystrokes
	// looking for a cursor report.
	queue []KeyEvent

	bytesCh chan byte
	errCh   chan error
	once    sync.Once
}

// NewDecoder starts the reader goroutine over r and returns a Decoder
// using the default matcher order: mouse reports take priority over
// plain escape sequences (both start with ESC [), which in turn take
// priority over the literal/control/character matcher.
func NewDecoder(r io.Reader, timeout AmbiguityTimeout, sink log.Sink) *Decoder {
	if sink == nil {
		sink = log.Nop
	}
	d := &Decoder{
		matchers: []Matcher{&mouseMatcher{}, escapeMatcher{}, literalMatcher{}},
		timeout:  timeout,
		sink:     sink,
		bytesCh:  make(chan byte, 256),
		errCh:    make(chan error, 1),
	}
	d.once.Do(func() { go d.readLoop(r) })
	return d
}

func (d *Decoder) readLoop(r io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			d.bytesCh <- buf[i]
		}
		if err != nil {
			d.errCh <- err
			close(d.bytesCh)
			return
		}
	}
}

// ErrClosed is returned once the underlying source has reached EOF and
// every queued/pending byte has been drained.
var ErrClosed = errors.New("input: source closed")

func (d *Decoder) nextByte(timeout time.Duration) (b byte, ok bool, err error) {
	if timeout <= 0 {
		select {
		case b, open := <-d.bytesCh:
			if !open {
				return 0, false, d.drainErr()
			}
			return b, true, nil
		case err := <-d.errCh:
			d.errCh <- err
			return 0, false, mapEOF(err)
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b, open := <-d.bytesCh:
		if !open {
			return 0, false, d.drainErr()
		}
		return b, true, nil
	case err := <-d.errCh:
		d.errCh <- err
		return 0, false, mapEOF(err)
	case <-timer.C:
		return 0, false, nil
	}
}

func (d *Decoder) drainErr() error {
	select {
	case err := <-d.errCh:
		d.errCh <- err
		return mapEOF(err)
	default:
		return ErrClosed
	}
}

func mapEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrClosed
	}
	return err
}

// Read blocks until the next event is available.
func (d *Decoder) Read() (KeyEvent, error) {
	return d.read(0)
}

// ReadWithTimeout blocks until the next event is available or timeout
// elapses, in which case it returns KeyEvent{}, ok=false and a nil error.
// A timeout of zero or less waits without limit, like Read.
func (d *Decoder) ReadWithTimeout(timeout time.Duration) (ev KeyEvent, ok bool, err error) {
	ev, err = d.read(timeout)
	if err == errNoEventYet {
		return KeyEvent{}, false, nil
	}
	return ev, err == nil, err
}

// Poll reports whether an event is already queued or would become
// available within timeout, without consuming it from a caller's
// perspective other than moving it into the internal queue. A timeout of
// zero or less waits without limit when nothing is queued.
func (d *Decoder) Poll(timeout time.Duration) bool {
	d.mu.Lock()
	if len(d.queue) > 0 {
		d.mu.Unlock()
		return true
	}
	d.mu.Unlock()

	ev, err := d.read(timeout)
	if err != nil {
		return false
	}
	d.mu.Lock()
	d.queue = append([]KeyEvent{ev}, d.queue...)
	d.mu.Unlock()
	return true
}

var errNoEventYet = errors.New("input: no event within timeout")

func (d *Decoder) read(timeout time.Duration) (KeyEvent, error) {
	d.mu.Lock()
	if len(d.queue) > 0 {
		ev := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		return ev, nil
	}
	d.mu.Unlock()

	return d.decodeNext(timeout)
}

// decodeNext drives the matcher pipeline: it grows d.pending one byte at
// a time, asking every matcher for its verdict, until either every
// matcher has given up (resync by dropping a byte) or a decision can be
// made. A decision is immediate once no matcher reports Partial; if some
// matcher is still Partial while another already reports Full, the
// ambiguity timeout decides whether to wait for a potentially longer
// match or commit to the Full one in hand.
func (d *Decoder) decodeNext(readTimeout time.Duration) (KeyEvent, error) {
	// waitAmbiguous waits up to the ambiguity timeout for one more byte;
	// with a zero timeout it only takes a byte that has already arrived.
	waitAmbiguous := func() (byte, bool, error) {
		if d.timeout > 0 {
			return d.nextByte(time.Duration(d.timeout))
		}
		select {
		case b, open := <-d.bytesCh:
			if !open {
				return 0, false, d.drainErr()
			}
			return b, true, nil
		default:
			return 0, false, nil
		}
	}

	for {
		d.mu.Lock()
		pending := append([]byte(nil), d.pending...)
		d.mu.Unlock()

		results := make([]MatchResult, len(d.matchers))
		anyPartial := false
		bestFull := -1
		for i, m := range d.matchers {
			r := m.Match(pending)
			results[i] = r
			switch r.Status {
			case Partial:
				anyPartial = true
			case Full:
				if bestFull == -1 || r.Consumed > results[bestFull].Consumed {
					bestFull = i
				}
			}
		}

		if bestFull != -1 && !anyPartial {
			return d.commit(results[bestFull])
		}

		if bestFull != -1 && anyPartial {
			b, ok, err := waitAmbiguous()
			if err != nil {
				return KeyEvent{}, err
			}
			if !ok {
				return d.commit(results[bestFull])
			}
			d.appendPending(b)
			continue
		}

		if anyPartial {
			// A pending run led by a bare ESC is inherently ambiguous
			// (lone Escape keypress vs. the start of a CSI/SS3/mouse
			// sequence) even when no matcher has produced a Full match
			// yet, so it always waits against the ambiguity timeout
			// rather than the caller's read timeout.
			if len(pending) > 0 && pending[0] == 0x1b {
				b, ok, err := waitAmbiguous()
				if err != nil {
					return KeyEvent{}, err
				}
				if !ok {
					return d.commit(full(1, NewKeyEvent(KeyEscape, 0)))
				}
				d.appendPending(b)
				continue
			}

			b, ok, err := d.nextByte(readTimeout)
			if err != nil {
				return KeyEvent{}, err
			}
			if !ok {
				if readTimeout > 0 {
					return KeyEvent{}, errNoEventYet
				}
				continue
			}
			d.appendPending(b)
			continue
		}

		// No matcher recognizes even a single byte of pending: resync by
		// dropping the lead byte and trying again.
		if len(pending) > 0 {
			d.sink.Warn("input: dropping unrecognized byte during resync", "byte", fmt.Sprintf("0x%02x", pending[0]))
			d.mu.Lock()
			d.pending = d.pending[1:]
			d.mu.Unlock()
			continue
		}

		b, ok, err := d.nextByte(readTimeout)
		if err != nil {
			return KeyEvent{}, err
		}
		if !ok {
			if readTimeout > 0 {
				return KeyEvent{}, errNoEventYet
			}
			continue
		}
		d.appendPending(b)
	}
}

func (d *Decoder) appendPending(b byte) {
	d.mu.Lock()
	d.pending = append(d.pending, b)
	d.mu.Unlock()
}

func (d *Decoder) commit(r MatchResult) (KeyEvent, error) {
	d.mu.Lock()
	d.pending = d.pending[r.Consumed:]
	d.mu.Unlock()
	return r.Event, nil
}

// AwaitCursorReport reads events, discarding ordinary key/mouse events
// onto the internal reinjection queue, until a KeyCursorLocationReport
// arrives or timeout elapses. Anything set aside is returned to a caller
// of Read/ReadWithTimeout in original order before any newly arriving
// byte is decoded, so a size probe never swallows keystrokes the user
// typed ahead of the terminal's response.
func (d *Decoder) AwaitCursorReport(timeout time.Duration) (KeyEvent, bool, error) {
	deadline := time.Now().Add(timeout)
	var setAside []KeyEvent
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			d.reinject(setAside)
			return KeyEvent{}, false, nil
		}
		ev, err := d.decodeNext(remaining)
		if err == errNoEventYet {
			d.reinject(setAside)
			return KeyEvent{}, false, nil
		}
		if err != nil {
			d.reinject(setAside)
			return KeyEvent{}, false, err
		}
		if ev.Kind == KeyCursorLocationReport {
			d.reinject(setAside)
			return ev, true, nil
		}
		setAside = append(setAside, ev)
	}
}

func (d *Decoder) reinject(events []KeyEvent) {
	if len(events) == 0 {
		return
	}
	d.mu.Lock()
	d.queue = append(append([]KeyEvent(nil), events...), d.queue...)
	d.mu.Unlock()
}
