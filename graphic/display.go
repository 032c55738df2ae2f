// Package graphic owns the terminal surface and the render loop. The
// display wraps termbox; the loop pulls features and drives the active
// renderer once per tick.
package graphic

import (
	"context"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/settings"
)

// Command is a user intent raised by the event poller.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPlayPause
	CmdStop
	CmdNextMode
	CmdNextScheme
	CmdSeekForward
	CmdSeekBack
	CmdVolumeUp
	CmdVolumeDown
	CmdBarWider
	CmdBarNarrower
	CmdResize
)

// Display is the termbox-backed drawing surface. It implements
// vis.Canvas plus Clear/Flush for the loop.
type Display struct {
	orientation settings.Orientation
	status      string
	commands    chan Command
}

// NewDisplay returns an uninitialized display; call Init before use.
func NewDisplay() *Display {
	return &Display{commands: make(chan Command, 8)}
}

// Init sets up the terminal. Close must be called to restore it.
func (d *Display) Init() error {
	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize terminal")
	}
	termbox.SetOutputMode(termbox.Output256)
	termbox.HideCursor()
	return nil
}

// Close restores the terminal.
func (d *Display) Close() error {
	termbox.Close()
	return nil
}

// SetOrientation selects horizontal or vertical drawing. Vertical
// rotates the surface 90 degrees.
func (d *Display) SetOrientation(o settings.Orientation) {
	d.orientation = o
}

// SetStatus sets the one-line track/status text drawn on Flush.
func (d *Display) SetStatus(s string) {
	d.status = s
}

// Size returns the logical surface size after orientation.
func (d *Display) Size() (int, int) {
	w, h := termbox.Size()
	if d.orientation == settings.Vertical {
		return h, w
	}
	return w, h
}

// Set draws one cell in logical coordinates.
func (d *Display) Set(x, y int, ch rune, fg settings.Color) {
	if d.orientation == settings.Vertical {
		w, _ := termbox.Size()
		x, y = w-1-y, x
	}
	termbox.SetCell(x, y, ch, termbox.Attribute(fg)+1, termbox.ColorDefault)
}

// Clear erases the back buffer.
func (d *Display) Clear() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
}

// Flush pushes the frame to the terminal, overlaying the status line.
func (d *Display) Flush() error {
	for _, cell := range statusCells(d.status) {
		termbox.SetCell(cell.col, 0, cell.ch, termbox.ColorWhite, termbox.ColorDefault)
	}
	return termbox.Flush()
}

// statusCell is one status line glyph at its terminal column.
type statusCell struct {
	col int
	ch  rune
}

// statusCells lays the status runes out by display width, starting at
// column 1, so wide glyphs advance two columns instead of leaving gaps
// or overlapping.
func statusCells(status string) []statusCell {
	if status == "" {
		return nil
	}
	cells := make([]statusCell, 0, len(status))
	col := 1
	for _, r := range status {
		cells = append(cells, statusCell{col: col, ch: r})
		col += runewidth.RuneWidth(r)
	}
	return cells
}

// Commands returns the channel of user intents.
func (d *Display) Commands() <-chan Command {
	return d.commands
}

// Start launches the event poller. The returned context is cancelled
// when the user quits or the parent context ends.
func (d *Display) Start(ctx context.Context) context.Context {
	pollCtx, cancel := context.WithCancel(ctx)
	go d.poll(pollCtx, cancel)
	return pollCtx
}

// Stop interrupts the poller.
func (d *Display) Stop() {
	termbox.Interrupt()
}

func (d *Display) poll(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := termbox.PollEvent()

		switch ev.Type {
		case termbox.EventInterrupt:
			return

		case termbox.EventResize:
			d.send(CmdResize)

		case termbox.EventKey:
			cmd := keyCommand(ev)
			if cmd == CmdQuit {
				d.send(CmdQuit)
				return
			}
			if cmd != CmdNone {
				d.send(cmd)
			}
		}
	}
}

func (d *Display) send(cmd Command) {
	select {
	case d.commands <- cmd:
	default:
	}
}

func keyCommand(ev termbox.Event) Command {
	if ev.Key == termbox.KeyCtrlC || ev.Key == termbox.KeyEsc {
		return CmdQuit
	}
	if ev.Key == termbox.KeySpace {
		return CmdPlayPause
	}
	if ev.Key == termbox.KeyArrowRight {
		return CmdSeekForward
	}
	if ev.Key == termbox.KeyArrowLeft {
		return CmdSeekBack
	}
	if ev.Key == termbox.KeyArrowUp {
		return CmdVolumeUp
	}
	if ev.Key == termbox.KeyArrowDown {
		return CmdVolumeDown
	}

	switch ev.Ch {
	case 'q', 'Q':
		return CmdQuit
	case 'm', 'M':
		return CmdNextMode
	case 'c', 'C':
		return CmdNextScheme
	case 's', 'S':
		return CmdStop
	case '+', '=':
		return CmdBarWider
	case '-', '_':
		return CmdBarNarrower
	}

	return CmdNone
}
