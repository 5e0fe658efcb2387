package snapshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/lifeplay/internal/board"
)

func TestWrite(t *testing.T) {
	boards, err := board.Parse("....\n.##.\n.##.\n....\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b := boards[0]

	path := filepath.Join(t.TempDir(), "block.png")
	const scale = 8
	if err := Write(b, path, scale); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != b.Width()*scale || bounds.Dy() != b.Height()*scale {
		t.Errorf("snapshot is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), b.Width()*scale, b.Height()*scale)
	}

	// A live-cell pixel is dark, a dead-cell pixel light.
	liveR, _, _, _ := img.At(1*scale+scale/2, 1*scale+scale/2).RGBA()
	deadR, _, _, _ := img.At(scale/2, scale/2).RGBA()
	if liveR >= deadR {
		t.Errorf("live pixel (%d) not darker than dead pixel (%d)", liveR, deadR)
	}
}

func TestWriteRejectsBadScale(t *testing.T) {
	boards, err := board.Parse("....\n.##.\n.##.\n....\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := Write(boards[0], filepath.Join(t.TempDir(), "x.png"), 0); err == nil {
		t.Fatal("expected error for zero scale")
	}
}
