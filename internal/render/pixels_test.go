package render

import (
	"image/color"
	"testing"

	"nanobreach/internal/sims/nano"
)

func pixel(buf []byte, i int) color.RGBA {
	return color.RGBA{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2], A: buf[i*4+3]}
}

func TestFillCellsUsesPalette(t *testing.T) {
	p := DefaultPalette()
	cells := []uint8{uint8(nano.Empty), uint8(nano.Nano), uint8(nano.Goal), 200}
	buf := make([]byte, len(cells)*4)
	FillCells(buf, cells, p, nil)

	for i, c := range cells[:3] {
		if got := pixel(buf, i); got != p.Cells[c] {
			t.Fatalf("pixel %d = %v, want %v", i, got, p.Cells[c])
		}
	}
	if got := pixel(buf, 3); got != p.Cells[len(p.Cells)-1] {
		t.Fatalf("out of range code = %v, want last palette entry", got)
	}
}

func TestFillCellsTintsPrediction(t *testing.T) {
	p := Palette{
		Cells:     []color.RGBA{{R: 0, G: 0, B: 0, A: 255}},
		Predicted: color.RGBA{R: 200, G: 100, B: 50, A: 255},
	}
	buf := make([]byte, 8)
	FillCells(buf, []uint8{0, 0}, p, []bool{false, true})

	if got := pixel(buf, 0); got != p.Cells[0] {
		t.Fatalf("unpredicted pixel = %v", got)
	}
	want := color.RGBA{R: 100, G: 50, B: 25, A: 255}
	if got := pixel(buf, 1); got != want {
		t.Fatalf("predicted pixel = %v, want %v", got, want)
	}
}

func TestEmptyPaletteIsTransparent(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	FillCells(buf, []uint8{1}, Palette{}, nil)
	if got := pixel(buf, 0); got != (color.RGBA{}) {
		t.Fatalf("pixel = %v, want transparent", got)
	}
}

func TestPredictionMask(t *testing.T) {
	if PredictionMask(3, 3, nil) != nil {
		t.Fatalf("empty set should give nil mask")
	}
	mask := PredictionMask(3, 2, nano.NewPointSet(nano.Point{X: 2, Y: 1}, nano.Point{X: 5, Y: 5}))
	if len(mask) != 6 || !mask[5] {
		t.Fatalf("mask = %v", mask)
	}
	for i, v := range mask[:5] {
		if v {
			t.Fatalf("mask[%d] set unexpectedly", i)
		}
	}
}
