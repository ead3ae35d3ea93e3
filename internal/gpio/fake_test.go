package gpio

import (
	"errors"
	"testing"
)

func TestFakeInputRead(t *testing.T) {
	f := NewFakeInput(false, true, true)

	want := []bool{false, true, true, true} // last sample repeats
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %v, got %v", i, w, got)
		}
	}

	if f.Reads() != len(want) {
		t.Errorf("expected %d reads, got %d", len(want), f.Reads())
	}
}

func TestFakeInputNoSamples(t *testing.T) {
	f := NewFakeInput()

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeInputError(t *testing.T) {
	f := NewFakeInput(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeInputCloseAndReset(t *testing.T) {
	f := NewFakeInput(true, false)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Read()
	f.Reset()

	got, _ := f.Read()
	if !got {
		t.Error("after reset: expected first sample (true)")
	}
	if f.Closed {
		t.Error("reset should clear Closed")
	}
}

func TestFakeOutputSet(t *testing.T) {
	o := NewFakeOutput()
	if o.On() {
		t.Error("new output should be low")
	}

	if err := o.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.On() {
		t.Error("expected high after Set(true)")
	}

	o.SetError = errors.New("line busy")
	if err := o.Set(false); err == nil {
		t.Error("expected SetError to be returned")
	}
	if !o.On() {
		t.Error("failed Set must leave level unchanged")
	}
	if o.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", o.Writes())
	}
}

func TestFakeButtonPress(t *testing.T) {
	presses := 0
	b := NewFakeButton(func() { presses++ })

	b.Press()
	b.Press()

	if presses != 2 {
		t.Errorf("expected 2 edges, got %d", presses)
	}
	level, err := b.Read()
	if err != nil || level {
		t.Errorf("expected released button, got level=%v err=%v", level, err)
	}
}

func TestFakeInputSetLevel(t *testing.T) {
	f := NewFakeInput(false, false, false)
	f.SetLevel(true)

	for i := 0; i < 3; i++ {
		v, err := f.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !v {
			t.Errorf("read %d: expected high after SetLevel", i)
		}
	}
}
