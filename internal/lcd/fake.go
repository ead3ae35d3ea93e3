package lcd

import (
	"strings"
	"sync"
)

// FakeDisplay keeps a character buffer in memory.
type FakeDisplay struct {
	mu       sync.Mutex
	cells    [Rows][Columns]byte
	col, row uint8
	prints   []string
	clears   int

	// PrintError, if set, is returned by Print and nothing is written.
	PrintError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeDisplay creates a blank display.
func NewFakeDisplay() *FakeDisplay {
	d := &FakeDisplay{}
	d.blank()
	return d
}

func (d *FakeDisplay) blank() {
	for r := range d.cells {
		for c := range d.cells[r] {
			d.cells[r][c] = ' '
		}
	}
	d.col, d.row = 0, 0
}

// Clear blanks the buffer and homes the cursor, as the HD44780 does.
func (d *FakeDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.blank()
	d.clears++
	return nil
}

// SetCursor moves the write position, clamped to the display.
func (d *FakeDisplay) SetCursor(col, row uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if row >= Rows {
		row = Rows - 1
	}
	d.col, d.row = col, row
	return nil
}

// Print writes text at the cursor. Characters past the last column are dropped.
func (d *FakeDisplay) Print(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.PrintError != nil {
		return d.PrintError
	}

	for i := 0; i < len(text); i++ {
		if int(d.col) >= Columns {
			break
		}
		d.cells[d.row][d.col] = text[i]
		d.col++
	}
	d.prints = append(d.prints, text)
	return nil
}

// Text returns the row contents without trailing blanks.
func (d *FakeDisplay) Text(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return strings.TrimRight(string(d.cells[row][:]), " ")
}

// Prints returns every string passed to Print, in order.
func (d *FakeDisplay) Prints() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.prints...)
}

// Clears returns how many times Clear was called.
func (d *FakeDisplay) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.clears
}

// Close marks the display as closed.
func (d *FakeDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Closed = true
	return nil
}
