package app

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rook-computer/panelkit/internal/state"
)

// Presenter shows a single image, such as a render.Framebuffer.
type Presenter interface {
	Present(img image.Image) error
}

// DisplaySink forwards one surface to a Presenter. Surface selects it by
// "<block id>/<index>", by block name, or by block name alone for index 0;
// empty selects the first published frame.
type DisplaySink struct {
	Display Presenter
	Surface string

	shown state.Key
	seq   uint64
}

func (s *DisplaySink) Present(frames []state.Frame) error {
	f, ok := SelectFrame(frames, s.Surface)
	if !ok || f.Image == nil {
		return nil
	}
	if f.Key == s.shown && f.Seq == s.seq {
		return nil
	}
	if err := s.Display.Present(f.Image); err != nil {
		return err
	}
	s.shown, s.seq = f.Key, f.Seq
	return nil
}

// SelectFrame finds the frame named by sel. See DisplaySink for the syntax.
func SelectFrame(frames []state.Frame, sel string) (state.Frame, bool) {
	if len(frames) == 0 {
		return state.Frame{}, false
	}
	if sel == "" {
		return frames[0], true
	}
	block, index := sel, 0
	if i := strings.LastIndex(sel, "/"); i >= 0 {
		if n, err := strconv.Atoi(sel[i+1:]); err == nil {
			block, index = sel[:i], n
		}
	}
	for _, f := range frames {
		if f.Index == index && (f.Block == block || f.BlockName == block) {
			return f, true
		}
	}
	return state.Frame{}, false
}

// PNGDirSink writes every changed frame to Dir as <block id>-<index>.png.
type PNGDirSink struct {
	Dir string

	written map[state.Key]uint64
}

func (s *PNGDirSink) Present(frames []state.Frame) error {
	if s.written == nil {
		s.written = make(map[state.Key]uint64)
	}
	for _, f := range frames {
		if f.Image == nil || s.written[f.Key] == f.Seq {
			continue
		}
		if err := WritePNG(filepath.Join(s.Dir, FrameFileName(f.Key)), f.Image); err != nil {
			return err
		}
		s.written[f.Key] = f.Seq
	}
	return nil
}

func FrameFileName(k state.Key) string { return fmt.Sprintf("%s-%d.png", k.Block, k.Index) }

// WritePNG encodes img to path through a temporary file so readers never see
// a partial image.
func WritePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
