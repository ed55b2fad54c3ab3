package tag

// drawHeader fills the black title band and prints left and right in
// bold white. Text is neither wrapped nor truncated.
func drawHeader(s *Surface, fonts *FontSet, l Layout, left, right string) error {
	s.FillRect(0, 0, float64(l.Width), l.HeaderHeight(), colorBlack)

	if err := s.UseFont(fonts, Bold, l.FontSize); err != nil {
		return err
	}

	y := l.Baseline(1)
	s.FillText(left, textInset, y, AlignLeft, colorWhite)
	s.FillText(right, float64(l.Width)-s.MeasureText(right)-textInset, y, AlignLeft, colorWhite)
	return nil
}
