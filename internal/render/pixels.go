package render

import (
	"image/color"

	"nanobreach/internal/sims/nano"
)

// Palette maps cell codes to colors. Predicted cells are blended towards
// Predicted.
type Palette struct {
	Cells     []color.RGBA
	Predicted color.RGBA
}

// DefaultPalette returns the standard board colors, indexed by nano.Cell.
func DefaultPalette() Palette {
	cells := make([]color.RGBA, nano.Goal+1)
	cells[nano.Empty] = color.RGBA{R: 18, G: 20, B: 26, A: 255}
	cells[nano.Nano] = color.RGBA{R: 110, G: 230, B: 120, A: 255}
	cells[nano.Wall] = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	cells[nano.Block] = color.RGBA{R: 70, G: 130, B: 220, A: 255}
	cells[nano.Splitter] = color.RGBA{R: 200, G: 120, B: 230, A: 255}
	cells[nano.Goal] = color.RGBA{R: 240, G: 200, B: 60, A: 255}
	return Palette{Cells: cells, Predicted: color.RGBA{R: 230, G: 70, B: 70, A: 255}}
}

// Color returns the palette color for c. Codes past the end of the palette
// use the last entry.
func (p Palette) Color(c uint8) color.RGBA {
	if len(p.Cells) == 0 {
		return color.RGBA{}
	}
	idx := int(c)
	if last := len(p.Cells) - 1; idx > last {
		idx = last
	}
	return p.Cells[idx]
}

// PredictionMask turns a point set into a row-major mask for a w*h board.
func PredictionMask(w, h int, pts nano.PointSet) []bool {
	if len(pts) == 0 {
		return nil
	}
	mask := make([]bool, w*h)
	for p := range pts {
		if p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h {
			mask[p.Y*w+p.X] = true
		}
	}
	return mask
}

// FillCells converts cell values into RGBA pixels in buf. predicted may be
// nil; otherwise cells with a true entry are tinted halfway towards the
// palette's prediction color.
func FillCells(buf []byte, cells []uint8, p Palette, predicted []bool) {
	for i, c := range cells {
		col := p.Color(c)
		if i < len(predicted) && predicted[i] {
			col = blend(col, p.Predicted)
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 255,
	}
}
