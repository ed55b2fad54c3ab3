package tag

import "image"

// textInset is the left and right margin of header and row text.
const textInset = 10

// Layout holds the proportional metrics derived from the canvas size.
// Row height and font size depend on the height only, never on content.
type Layout struct {
	Width      int
	Height     int
	LineHeight float64
	FontSize   float64
}

// NewLayout derives the layout of a width × height canvas.
func NewLayout(width, height int) Layout {
	lineHeight := float64(height) / 10
	return Layout{
		Width:      width,
		Height:     height,
		LineHeight: lineHeight,
		FontSize:   lineHeight * 0.5,
	}
}

// HeaderHeight is the height of the title band, which is row 0.
func (l Layout) HeaderHeight() float64 {
	return l.LineHeight
}

// Baseline is the text baseline of the line whose bottom edge is the n-th
// row boundary: n*lineHeight - (lineHeight - fontSize)/2.
func (l Layout) Baseline(n int) float64 {
	return float64(n)*l.LineHeight - (l.LineHeight-l.FontSize)/2
}

// RowBaseline is the baseline of row, where row 0 is the header and
// events start at row 1.
func (l Layout) RowBaseline(row int) float64 {
	return l.Baseline(row + 1)
}

// RuleY is the y-position of the rule closing row.
func (l Layout) RuleY(row int) float64 {
	return float64(row+1) * l.LineHeight
}

// Separator is the gap between the time label and the description.
func (l Layout) Separator() float64 {
	return Separator(l.Width)
}

// QRRect is where the not-configured tag places its QR code: a square of
// side 0.3·width at (0.35·width, 3·lineHeight).
func (l Layout) QRRect() image.Rectangle {
	w := float64(l.Width)
	x := int(w * 0.35)
	y := int(l.LineHeight * 3)
	side := int(w * 0.3)
	return image.Rect(x, y, x+side, y+side)
}

// Separator is 2.5% of width, floored at 25px and capped at 50px.
func Separator(width int) float64 {
	return clamp(float64(width)*0.025, 25, 50)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
