package reader

import (
	"image"
	"image/color"
	"strings"

	readerdto "folio/internal/modules/reader/dto"
)

// ramp runs from dark to light.
const ramp = "@%#*+=-:. "

// Raster draws the displayed frames as text, cols by rows cells, frames side
// by side. Each cell takes the mean luminance of the pixels it covers.
func Raster(frames []readerdto.FrameOutput, cols, rows int) string {
	if len(frames) == 0 || cols < 1 || rows < 1 {
		return ""
	}
	per := cols / len(frames)
	if per < 1 {
		per = 1
	}
	lines := make([]strings.Builder, rows)
	for i, f := range frames {
		if i > 0 {
			for r := range lines {
				lines[r].WriteByte(' ')
			}
		}
		w := per
		if i > 0 {
			w = per - 1
		}
		for r, row := range rasterFrame(f.Image, w, rows) {
			lines[r].WriteString(row)
		}
	}
	out := make([]string, rows)
	for r := range lines {
		out[r] = strings.TrimRight(lines[r].String(), " ")
	}
	return strings.Join(out, "\n")
}

func rasterFrame(img image.Image, cols, rows int) []string {
	out := make([]string, rows)
	if img == nil || cols < 1 {
		return out
	}
	b := img.Bounds()
	if b.Empty() {
		return out
	}
	for r := 0; r < rows; r++ {
		y0 := b.Min.Y + r*b.Dy()/rows
		y1 := b.Min.Y + (r+1)*b.Dy()/rows
		if y1 <= y0 {
			y1 = y0 + 1
		}
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			x0 := b.Min.X + c*b.Dx()/cols
			x1 := b.Min.X + (c+1)*b.Dx()/cols
			if x1 <= x0 {
				x1 = x0 + 1
			}
			sb.WriteByte(ramp[rampIndex(meanLuma(img, image.Rect(x0, y0, x1, y1).Intersect(b)))])
		}
		out[r] = sb.String()
	}
	return out
}

func meanLuma(img image.Image, cell image.Rectangle) uint32 {
	if cell.Empty() {
		return 0xffff
	}
	var sum, n uint64
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			sum += uint64(color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y)
			n++
		}
	}
	return uint32(sum / n)
}

func rampIndex(luma uint32) int {
	i := int(luma) * len(ramp) / 0x10000
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return i
}
