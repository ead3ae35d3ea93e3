package lcd

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// PCF8574 backpack bit assignments used by the hd44780i2c driver.
const (
	bitRS = 0x01
	bitEN = 0x04
)

type recordingBus struct {
	mu     sync.Mutex
	addrs  []uint16
	writes []byte
	failOn int // fail the Nth transfer (1-based); 0 never fails
	err    error
	closes int
}

func (b *recordingBus) Tx(addr uint16, w, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.addrs = append(b.addrs, addr)
	b.writes = append(b.writes, w...)
	if b.failOn > 0 && len(b.addrs) >= b.failOn {
		err := errors.New("nack")
		if b.err == nil {
			b.err = err
		}
		return err
	}
	return nil
}

func (b *recordingBus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.err
	b.err = nil
	return err
}

func (b *recordingBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return nil
}

func (b *recordingBus) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addrs = nil
	b.writes = nil
}

// dataBytes rebuilds the characters sent with RS high from the nibbles
// latched on each enable pulse.
func (b *recordingBus) dataBytes() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var nibbles []byte
	for _, v := range b.writes {
		if v&bitEN != 0 && v&bitRS != 0 {
			nibbles = append(nibbles, v&0xf0)
		}
	}

	out := make([]byte, 0, len(nibbles)/2)
	for i := 0; i+1 < len(nibbles); i += 2 {
		out = append(out, nibbles[i]|nibbles[i+1]>>4)
	}
	return string(out)
}

func TestHD44780Print(t *testing.T) {
	bus := &recordingBus{}
	h, err := NewHD44780(bus, DefaultAddress)
	require.NoError(t, err)
	require.NotEmpty(t, bus.addrs)
	require.Equal(t, uint16(DefaultAddress), bus.addrs[0])

	bus.reset()
	require.NoError(t, h.SetCursor(0, 0))
	require.NoError(t, h.Clear())
	require.NoError(t, h.Print("LOUD.."))
	require.Equal(t, "LOUD..", bus.dataBytes())

	require.NoError(t, h.Close())
	require.Equal(t, 1, bus.closes, "display owns the bus and closes it once")
}

func TestHD44780ReportsBusErrors(t *testing.T) {
	bus := &recordingBus{failOn: 1}
	_, err := NewHD44780(bus, 0x3f)
	require.Error(t, err)
	require.Equal(t, 1, bus.closes, "bus released when the display cannot start")
}

func TestFakeDisplay(t *testing.T) {
	d := NewFakeDisplay()
	require.Equal(t, "", d.Text(0))

	require.NoError(t, d.Print("Quiet.."))
	require.Equal(t, "Quiet..", d.Text(0))

	// Clearing then printing a shorter message leaves no residue.
	require.NoError(t, d.SetCursor(0, 0))
	require.NoError(t, d.Clear())
	require.NoError(t, d.Print("LOUD.."))
	require.Equal(t, "LOUD..", d.Text(0))
	require.Equal(t, "", d.Text(1))

	require.Equal(t, 1, d.Clears())
	require.Equal(t, []string{"Quiet..", "LOUD.."}, d.Prints())
}

func TestFakeDisplayTruncatesRow(t *testing.T) {
	d := NewFakeDisplay()
	require.NoError(t, d.SetCursor(0, 1))
	require.NoError(t, d.Print("0123456789abcdefOVERFLOW"))
	require.Equal(t, "0123456789abcdef", d.Text(1))
	require.Equal(t, "", d.Text(0))
}

func TestFakeDisplayPrintError(t *testing.T) {
	d := NewFakeDisplay()
	d.PrintError = errors.New("bus stuck")
	require.Error(t, d.Print("LOUD.."))
	require.Equal(t, "", d.Text(0))
}
