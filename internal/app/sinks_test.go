package app

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rook-computer/panelkit/internal/state"
)

type fakeDisplay struct {
	shown []image.Image
	err   error
}

func (d *fakeDisplay) Present(img image.Image) error {
	if d.err != nil {
		return d.err
	}
	d.shown = append(d.shown, img)
	return nil
}

func testFrames() []state.Frame {
	return []state.Frame{
		{Key: state.Key{Block: "id-a", Index: 0}, BlockName: "Panel A", Seq: 1, Image: image.NewRGBA(image.Rect(0, 0, 2, 2))},
		{Key: state.Key{Block: "id-a", Index: 1}, BlockName: "Panel A", Seq: 1, Image: image.NewRGBA(image.Rect(0, 0, 3, 3))},
		{Key: state.Key{Block: "id-b", Index: 0}, BlockName: "Panel B", Seq: 4},
	}
}

func TestSelectFrame(t *testing.T) {
	frames := testFrames()
	tests := []struct {
		sel  string
		want state.Key
		ok   bool
	}{
		{"", state.Key{Block: "id-a", Index: 0}, true},
		{"id-a/1", state.Key{Block: "id-a", Index: 1}, true},
		{"Panel A/1", state.Key{Block: "id-a", Index: 1}, true},
		{"Panel B", state.Key{Block: "id-b", Index: 0}, true},
		{"id-a/9", state.Key{}, false},
		{"nope", state.Key{}, false},
	}
	for _, tt := range tests {
		f, ok := SelectFrame(frames, tt.sel)
		if ok != tt.ok || f.Key != tt.want {
			t.Errorf("SelectFrame(%q) = %v, %v", tt.sel, f.Key, ok)
		}
	}
	if _, ok := SelectFrame(nil, ""); ok {
		t.Error("selected from no frames")
	}
}

func TestDisplaySinkSkipsUnchangedFrames(t *testing.T) {
	display := &fakeDisplay{}
	sink := &DisplaySink{Display: display, Surface: "id-a/1"}
	frames := testFrames()

	for i := 0; i < 3; i++ {
		if err := sink.Present(frames); err != nil {
			t.Fatal(err)
		}
	}
	if len(display.shown) != 1 {
		t.Fatalf("shown %d times", len(display.shown))
	}
	frames[1].Seq++
	_ = sink.Present(frames)
	if len(display.shown) != 2 {
		t.Fatalf("new frame not shown")
	}

	// A surface without an image is not forwarded.
	sink.Surface = "Panel B"
	_ = sink.Present(frames)
	if len(display.shown) != 2 {
		t.Fatal("empty frame forwarded")
	}
}

func TestDisplaySinkRetriesAfterError(t *testing.T) {
	display := &fakeDisplay{err: errors.New("busy")}
	sink := &DisplaySink{Display: display}
	if err := sink.Present(testFrames()); err == nil {
		t.Fatal("error not returned")
	}
	display.err = nil
	if err := sink.Present(testFrames()); err != nil || len(display.shown) != 1 {
		t.Fatalf("retry: err=%v shown=%d", err, len(display.shown))
	}
}

func TestPNGDirSink(t *testing.T) {
	dir := t.TempDir()
	sink := &PNGDirSink{Dir: dir}
	frames := testFrames()
	if err := sink.Present(frames); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("files = %v", entries)
	}

	f, err := os.Open(filepath.Join(dir, "id-a-1.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestPNGDirSinkMissingDir(t *testing.T) {
	sink := &PNGDirSink{Dir: filepath.Join(t.TempDir(), "missing")}
	if err := sink.Present(testFrames()); err == nil {
		t.Fatal("write to a missing directory succeeded")
	}
}
