package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"lifeboard/internal/board"
)

// Palette colours live and dead cells.
type Palette struct {
	On  color.Color
	Off color.Color
}

// DefaultPalette draws white cells on black.
var DefaultPalette = Palette{On: color.White, Off: color.Black}

// Image draws b with every cell as a scale x scale square.
func Image(b board.Board, scale int, p Palette) (*image.RGBA, error) {
	if b.IsZero() {
		return nil, errors.New("render: empty board")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("render: scale must be positive, got %d", scale)
	}
	src := &image.RGBA{
		Pix:    Pixels(b, p.On, p.Off),
		Stride: 4 * b.Cols(),
		Rect:   image.Rect(0, 0, b.Cols(), b.Rows()),
	}
	if scale == 1 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Cols()*scale, b.Rows()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// WritePNG encodes b as a PNG image.
func WritePNG(w io.Writer, b board.Board, scale int, p Palette) error {
	img, err := Image(b, scale, p)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
