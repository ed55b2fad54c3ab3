package tag

// timeLabelTemplate fixes the description column: every time label is
// assumed to be at most this wide.
const timeLabelTemplate = "00:00 - 00:00"

// RenderSchedule draws the room name and date in the header and one ruled
// row per event. Rows past the bottom edge are not clipped or paginated;
// they simply fall outside the image.
func (r *Renderer) RenderSchedule(req ScheduleRequest) (*Tag, error) {
	return r.render(req.Width, req.Height, r.schedule(req))
}

func (r *Renderer) schedule(req ScheduleRequest) composition {
	return composition{
		op:         "tag.schedule",
		background: colorWhite,
		header:     &header{left: req.Name, right: req.Date},
		content: func(s *Surface, l Layout) error {
			// Measured in the header face.
			labelWidth, err := r.fonts.Measure(Bold, l.FontSize, timeLabelTemplate)
			if err != nil {
				return err
			}
			descX := labelWidth + l.Separator()

			if err := s.UseFont(r.fonts, Regular, l.FontSize); err != nil {
				return err
			}
			for i, ev := range req.Events {
				row := i + 1
				y := l.RowBaseline(row)
				s.FillText(ev.Start+" - "+ev.End, textInset, y, AlignLeft, colorBlack)
				s.FillText(ev.Desc, descX, y, AlignLeft, colorBlack)
				s.HRule(l.RuleY(row), colorBlack)
			}
			return nil
		},
	}
}
