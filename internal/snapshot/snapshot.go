// Package snapshot renders boards to PNG images for offline inspection.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/hailam/lifeplay/internal/board"
)

// Write renders b at one pixel per cell, scales it up by the given factor
// with nearest-neighbour sampling so cells stay crisp, and writes the
// result as a PNG at path.
func Write(b *board.Board, path string, scale int) error {
	if scale < 1 {
		return fmt.Errorf("snapshot: scale %d out of range", scale)
	}
	src := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.Get(x, y) {
				src.SetGray(x, y, color.Gray{Y: 0})
			} else {
				src.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, b.Width()*scale, b.Height()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
