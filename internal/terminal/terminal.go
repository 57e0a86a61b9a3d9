// Package terminal previews surface frames in a terminal using half-block
// characters, two pixels per cell.
package terminal

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/panelkit/internal/state"
)

const halfBlock = '▀'

// Sink draws one selected surface per frame. Tab and the arrow keys change
// the selection; q, Esc and Ctrl-C call the quit function.
type Sink struct {
	screen tcell.Screen
	quit   func()

	mu       sync.Mutex
	frames   []state.Frame
	selected int
	style    tcell.Style
}

// New takes ownership of an initialized screen.
func New(screen tcell.Screen, quit func()) *Sink {
	if quit == nil {
		quit = func() {}
	}
	style := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	screen.SetStyle(style)
	screen.HideCursor()
	return &Sink{screen: screen, quit: quit, style: style}
}

// Open initializes the controlling terminal.
func Open(quit func()) (*Sink, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen, quit), nil
}

func (s *Sink) Present(frames []state.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
	s.draw()
	return nil
}

// Selected returns the key of the surface currently shown.
func (s *Sink) Selected() (state.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return state.Key{}, false
	}
	return s.frames[s.index()].Key, true
}

// Run handles input until ctx is done. It closes the screen on return.
func (s *Sink) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 10)
	go pumpEvents(ctx, s.screen.PollEvent, events)
	defer s.screen.Fini()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.HandleEvent(ev)
		}
	}
}

// pumpEvents forwards polled events until poll returns nil or ctx is done.
// events is closed on return.
func pumpEvents(ctx context.Context, poll func() tcell.Event, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sink) HandleEvent(ev tcell.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyTab, tcell.KeyRight, tcell.KeyDown:
			s.selected++
		case tcell.KeyBacktab, tcell.KeyLeft, tcell.KeyUp:
			s.selected--
		case tcell.KeyEscape, tcell.KeyCtrlC:
			s.quit()
			return
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'n', 'l':
				s.selected++
			case 'p', 'h':
				s.selected--
			case 'q':
				s.quit()
				return
			}
		}
	}
	s.draw()
}

func (s *Sink) index() int {
	n := len(s.frames)
	return ((s.selected % n) + n) % n
}

func (s *Sink) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	if len(s.frames) == 0 {
		s.text(0, 0, "waiting for surfaces...", s.style)
		s.screen.Show()
		return
	}

	i := s.index()
	f := s.frames[i]
	header := fmt.Sprintf("[%d/%d] %s #%d  %s", i+1, len(s.frames), f.BlockName, f.Index, strings.Join(f.Content, ", "))
	if f.Error != "" {
		header += "  ! " + f.Error
	}
	s.text(0, 0, header, s.style.Reverse(true))
	if f.Image != nil && h > 1 {
		s.image(f.Image, w, h-1)
	}
	s.screen.Show()
}

func (s *Sink) text(x, y int, text string, style tcell.Style) {
	w, _ := s.screen.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// image scales img to fit cols x rows cells below the header, keeping its
// aspect ratio.
func (s *Sink) image(img *image.RGBA, cols, rows int) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	pw, ph := cols, rows*2
	scale := min(float64(pw)/float64(b.Dx()), float64(ph)/float64(b.Dy()))
	dw, dh := int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)
	if dw == 0 || dh == 0 {
		return
	}

	sample := func(x, y int) tcell.Color {
		if y >= dh {
			return tcell.ColorReset
		}
		c := img.RGBAAt(b.Min.X+x*b.Dx()/dw, b.Min.Y+y*b.Dy()/dh)
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	for cy := 0; cy < (dh+1)/2; cy++ {
		for x := 0; x < dw; x++ {
			style := s.style.Foreground(sample(x, cy*2)).Background(sample(x, cy*2+1))
			s.screen.SetContent(x, cy+1, halfBlock, nil, style)
		}
	}
}
