package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"voxelmesh/internal/world"

	"golang.org/x/image/draw"
)

// Preview renders a top-down map of the loaded chunks: one pixel per column coloured by
// its highest solid voxel, darker the lower it lies, scaled up by scale.
// Columns with no solid voxel are transparent. North (-Z) is at the top.
func Preview(store *world.ChunkStore, scale int) (*image.RGBA, error) {
	lo, hi, ok := store.Bounds()
	if !ok {
		return nil, ErrNothingToExport
	}
	if scale < 1 {
		scale = 1
	}
	w, h := hi.X-lo.X+1, hi.Z-lo.Z+1
	height := hi.Y - lo.Y + 1

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			for y := hi.Y; y >= lo.Y; y-- {
				id := store.VoxelAt(world.Position{X: lo.X + x, Y: y, Z: lo.Z + z})
				if !id.IsSolid() {
					continue
				}
				src.SetRGBA(x, z, shade(ColorOf(id), float32(y-lo.Y+1)/float32(height)))
				break
			}
		}
	}
	if scale == 1 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// SavePreview writes Preview(store, scale) as a PNG.
func SavePreview(path string, store *world.ChunkStore, scale int) (err error) {
	img, err := Preview(store, scale)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// shade scales a colour toward black; t in (0, 1], 1 keeps it unchanged.
func shade(c color.RGBA, t float32) color.RGBA {
	f := 0.5 + 0.5*t
	return color.RGBA{R: uint8(float32(c.R) * f), G: uint8(float32(c.G) * f), B: uint8(float32(c.B) * f), A: c.A}
}
