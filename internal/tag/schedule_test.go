package tag

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"tagrender/internal/pkg/errors"
)

func scheduleRequest() ScheduleRequest {
	return ScheduleRequest{
		Name:   "Raum 1.04",
		Date:   "14.10.2026",
		Width:  800,
		Height: 480,
		Events: []Event{
			{Desc: "A", Start: "09:00", End: "10:00"},
			{Desc: "B", Start: "10:15", End: "11:45"},
		},
	}
}

func TestRenderSchedule(t *testing.T) {
	r := newTestRenderer(t, nil)

	tg, err := r.RenderSchedule(scheduleRequest())
	if err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}
	if tg.ContentType() != ContentType {
		t.Errorf("ContentType() = %q", tg.ContentType())
	}
	img := decode(t, tg)

	// Header band above the text.
	assertDark(t, img, 400, 3)
	assertDark(t, img, 5, 45)
	// Rules close rows 1 and 2.
	assertDark(t, img, 780, 96)
	assertDark(t, img, 780, 144)
	assertLight(t, img, 780, 100)
	assertLight(t, img, 780, 140)
	// Nothing below the last row.
	assertLight(t, img, 400, 300)
	assertLight(t, img, 780, 192)
}

func TestRenderScheduleHeaderBand(t *testing.T) {
	r := newTestRenderer(t, nil)
	rng := rand.New(rand.NewPCG(3, 5))

	for i := 0; i < 12; i++ {
		w, h := 40+rng.IntN(1160), 40+rng.IntN(960)
		t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
			tg, err := r.RenderSchedule(ScheduleRequest{Width: w, Height: h})
			if err != nil {
				t.Fatalf("RenderSchedule() error = %v", err)
			}
			img := decode(t, tg)

			band := float64(h) / 10
			last := int(math.Floor(band)) - 1
			below := int(math.Ceil(band))
			for _, x := range []int{0, w / 2, w - 1} {
				assertDark(t, img, x, 0)
				assertDark(t, img, x, last)
				assertLight(t, img, x, below)
			}
		})
	}
}

func TestRenderScheduleRuleSpacing(t *testing.T) {
	r := newTestRenderer(t, nil)
	req := scheduleRequest()
	req.Events = nil
	for i := 0; i < 6; i++ {
		req.Events = append(req.Events, Event{Desc: "x", Start: "08:00", End: "09:00"})
	}

	tg, err := r.RenderSchedule(req)
	if err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}
	img := decode(t, tg)

	// lineHeight is 48: rules at 96, 144, ..., 336 and nothing after.
	x := req.Width - 2
	for n := 1; n <= 6; n++ {
		y := (n + 1) * 48
		assertDark(t, img, x, y)
		assertLight(t, img, x, y-24)
	}
	assertLight(t, img, x, 384)
	assertLight(t, img, x, 432)
}

func TestRenderScheduleNoEvents(t *testing.T) {
	r := newTestRenderer(t, nil)
	req := scheduleRequest()
	req.Events = nil

	tg, err := r.RenderSchedule(req)
	if err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}
	img := decode(t, tg)
	assertDark(t, img, 400, 3)
	assertLight(t, img, 780, 96)
}

func TestRenderScheduleOverflow(t *testing.T) {
	r := newTestRenderer(t, nil)
	req := scheduleRequest()
	req.Width, req.Height = 200, 100
	for i := 0; i < 30; i++ {
		req.Events = append(req.Events, Event{Desc: "overflow", Start: "00:00", End: "23:59"})
	}

	tg, err := r.RenderSchedule(req)
	if err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}
	decode(t, tg)
}

func TestRenderScheduleInvalidDimension(t *testing.T) {
	r := newTestRenderer(t, nil)
	req := scheduleRequest()
	req.Height = 0

	_, err := r.RenderSchedule(req)
	if !errors.IsCode(err, errors.CodeInvalidDimension) {
		t.Errorf("RenderSchedule() error = %v, want %s", err, errors.CodeInvalidDimension)
	}
	if got := errors.GetHTTPStatus(err); got != 400 {
		t.Errorf("HTTP status = %d, want 400", got)
	}
}

func TestRenderScheduleConcurrent(t *testing.T) {
	r := newTestRenderer(t, nil)
	want, err := r.RenderSchedule(scheduleRequest())
	if err != nil {
		t.Fatalf("RenderSchedule() error = %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Tag, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.RenderSchedule(scheduleRequest())
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if errs[i] != nil {
			t.Fatalf("render %d error = %v", i, errs[i])
		}
		if !bytes.Equal(got.Bytes(), want.Bytes()) {
			t.Errorf("render %d differs from sequential render", i)
		}
	}
}
