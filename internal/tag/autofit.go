package tag

// MaxFontSize bounds the AutoFit scan.
const MaxFontSize = 4096

// MeasureFunc returns the rendered width of text at a pixel size.
type MeasureFunc func(text string, size float64) (float64, error)

// AutoFit scans font sizes upward from 1 and returns the first size whose
// measured width reaches target. The result s satisfies
//
//	measure(s-1) < target <= measure(s)
//
// so it is one unit larger than the largest size that still fits.
func AutoFit(text string, target float64, measure MeasureFunc) (int, error) {
	size := 1
	for {
		width, err := measure(text, float64(size))
		if err != nil {
			return 0, err
		}
		if width >= target || size >= MaxFontSize {
			return size, nil
		}
		size++
	}
}
