package input

import (
	"io"
	"testing"
	"time"
)

// openEndedReader behaves like a live terminal: Read delivers whatever
// was written to it and then blocks, rather than returning io.EOF, so
// tests can exercise the decoder's timeout-driven ambiguity resolution.
func openEndedReader(t *testing.T, data string) io.Reader {
	t.Helper()
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte(data))
		// Deliberately never Close: simulates a terminal that has no
		// more bytes queued right now but remains open.
	}()
	t.Cleanup(func() { _ = pw.Close() })
	return pr
}

func TestDecodeLiteralCharacter(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "a"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCharacter || ev.Character != 'a' {
		t.Errorf("got %+v, want Character 'a'", ev)
	}
}

func TestDecodeCtrlC(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x03"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCharacter || ev.Character != 'c' || !ev.Modifiers.Has(ModCtrl) {
		t.Errorf("got %+v, want Ctrl+c", ev)
	}
}

func TestDecodeEnterTabBackspace(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\r\t\x7f"), QuarterSeconds(1), nil)
	wantKinds := []Key{KeyEnter, KeyTab, KeyBackspace}
	for _, want := range wantKinds {
		ev, err := d.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if ev.Kind != want {
			t.Errorf("got kind %v, want %v", ev.Kind, want)
		}
	}
}

func TestDecodeCtrlSpace(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x00"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCharacter || ev.Character != ' ' || !ev.Modifiers.Has(ModCtrl) {
		t.Errorf("got %+v, want Ctrl+Space", ev)
	}
}

func TestDecodeHighCtrlChords(t *testing.T) {
	// 0x1c-0x1f map to Ctrl+\, Ctrl+], Ctrl+^, Ctrl+_.
	d := NewDecoder(openEndedReader(t, "\x1c\x1d\x1e\x1f"), QuarterSeconds(1), nil)
	want := []rune{'\\', ']', '^', '_'}
	for _, r := range want {
		ev, err := d.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if ev.Kind != KeyCharacter || ev.Character != r || !ev.Modifiers.Has(ModCtrl) {
			t.Errorf("got %+v, want Ctrl+%c", ev, r)
		}
	}
}

func TestDecodeArrowKey(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[A"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyArrowUp {
		t.Errorf("got %+v, want ArrowUp", ev)
	}
}

func TestDecodeModifiedArrowKey(t *testing.T) {
	// Ctrl+Shift+Right: CSI 1;6 C
	d := NewDecoder(openEndedReader(t, "\x1b[1;6C"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyArrowRight || !ev.Modifiers.Has(ModCtrl) || !ev.Modifiers.Has(ModShift) {
		t.Errorf("got %+v, want Ctrl+Shift+ArrowRight", ev)
	}
}

func TestDecodeTildeFunctionKey(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[15~"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyF5 {
		t.Errorf("got %+v, want F5", ev)
	}
}

func TestDecodeLegacyFunctionKey(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[[C"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyF3 {
		t.Errorf("got %+v, want F3", ev)
	}
}

func TestDecodeSS3FunctionKey(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1bOP"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyF1 {
		t.Errorf("got %+v, want F1", ev)
	}
}

func TestDecodeAltCharacter(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1ba"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCharacter || ev.Character != 'a' || !ev.Modifiers.Has(ModAlt) {
		t.Errorf("got %+v, want Alt+a", ev)
	}
}

func TestDecodeLoneEscapeTimesOut(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyEscape {
		t.Errorf("got %+v, want Escape", ev)
	}
}

func TestDecodeCursorLocationReport(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[6;10R"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCursorLocationReport || ev.CursorReport.Row != 5 || ev.CursorReport.Column != 9 {
		t.Errorf("got %+v, want CursorLocationReport (row=5,col=9)", ev)
	}
}

func TestDecodeMouseSGR(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[<0;10;20M"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyMouseEvent {
		t.Fatalf("got %+v, want MouseEvent", ev)
	}

	d.mu.Lock()
	queued := d.queue
	d.mu.Unlock()
	_ = queued
}

func TestDecodeMouseWheel(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[<64;5;5M\x1b[<65;5;5M"), QuarterSeconds(1), nil)

	up, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m, ok := up.Mouse()
	if !ok || m.Action != MouseScrollUp || m.Button != 4 {
		t.Errorf("got %+v, want ScrollUp button=4", m)
	}

	down, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m, ok = down.Mouse()
	if !ok || m.Action != MouseScrollDown || m.Button != 5 {
		t.Errorf("got %+v, want ScrollDown button=5", m)
	}
}

func TestDecodeMouseDragCoercedFromHeldButton(t *testing.T) {
	// Press left button (code 0, M), then a motion report whose own
	// button bits read clear (code 32 == motion only) while the button
	// is still held: must coerce to Drag, not Move.
	d := NewDecoder(openEndedReader(t, "\x1b[<0;10;20M\x1b[<32;11;20M\x1b[<0;11;20m"), QuarterSeconds(1), nil)

	press, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m, ok := press.Mouse(); !ok || m.Action != MouseButtonDown || m.Button != 1 {
		t.Errorf("got %+v, want ButtonDown button=1", m)
	}

	motion, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m, ok := motion.Mouse(); !ok || m.Action != MouseDrag || m.Button != 1 {
		t.Errorf("got %+v, want Drag coerced to button=1", m)
	}

	release, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m, ok := release.Mouse(); !ok || m.Action != MouseButtonRelease {
		t.Errorf("got %+v, want ButtonRelease", m)
	}
}

func TestDecodeMousePlainMoveWithNoButtonHeld(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "\x1b[<32;11;20M"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m, ok := ev.Mouse(); !ok || m.Action != MouseMove {
		t.Errorf("got %+v, want Move (no button held)", m)
	}
}

func TestAwaitCursorReportReinjectsKeystrokes(t *testing.T) {
	d := NewDecoder(openEndedReader(t, "a\x1b[6;10R"), QuarterSeconds(1), nil)

	ev, ok, err := d.AwaitCursorReport(time.Second)
	if err != nil {
		t.Fatalf("AwaitCursorReport: %v", err)
	}
	if !ok || ev.Kind != KeyCursorLocationReport {
		t.Fatalf("got (%+v,%v), want a cursor report", ev, ok)
	}

	next, err := d.Read()
	if err != nil {
		t.Fatalf("Read after reinjection: %v", err)
	}
	if next.Kind != KeyCharacter || next.Character != 'a' {
		t.Errorf("got %+v, want the reinjected 'a' keystroke", next)
	}
}

func TestDecodeResyncsPastUnrecognizedByte(t *testing.T) {
	// A bare 0xff byte (never valid UTF-8 lead nor C0 control) should be
	// dropped so decoding can resync on the 'b' that follows.
	d := NewDecoder(openEndedReader(t, "\xffb"), QuarterSeconds(1), nil)
	ev, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != KeyCharacter || ev.Character != 'b' {
		t.Errorf("got %+v, want to resync onto 'b'", ev)
	}
}

func TestReadWithTimeoutReturnsNotOKWhenIdle(t *testing.T) {
	d := NewDecoder(openEndedReader(t, ""), QuarterSeconds(1), nil)
	_, ok, err := d.ReadWithTimeout(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("ReadWithTimeout: %v", err)
	}
	if ok {
		t.Errorf("expected no event within timeout on an idle stream")
	}
}
