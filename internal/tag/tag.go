// Package tag composes the raster images shown on e-paper room displays:
// the schedule view, the not-configured prompt with its QR code, the
// emergency notice and the branding logo.
//
// Every renderer is a pure function of its arguments. A Renderer holds only
// read-only state (parsed fonts and a QR encoder) and is safe for
// concurrent use; each call allocates its own surface and font faces.
package tag

import (
	"bytes"
	"io"
)

// ContentType is the media type of every rendered tag.
const ContentType = "image/jpeg"

// Kind names a tag variant.
type Kind string

const (
	KindSchedule  Kind = "schedule"
	KindEmergency Kind = "emergency"
	KindConfigure Kind = "configure"
	KindLogo      Kind = "logo"
)

// Fixed German strings printed on the tags.
const (
	EmergencyText     = "NOTFALL - GEBÄUDE VERLASSEN"
	NotConfiguredText = "Kein Raum zugewiesen"
	ConfigurePrompt   = "Jetzt konfigurieren"
)

// Event is one row of a schedule. Start and End are display strings and
// are printed as given.
type Event struct {
	Desc  string `json:"desc"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleRequest is the input of RenderSchedule. Events are drawn in
// slice order.
type ScheduleRequest struct {
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Events []Event `json:"events"`
}

// Tag is an encoded JPEG image. It is immutable once created.
type Tag struct {
	data   []byte
	width  int
	height int
}

// FromJPEG wraps already encoded JPEG data, e.g. a cached render.
func FromJPEG(data []byte, width, height int) *Tag {
	return &Tag{data: bytes.Clone(data), width: width, height: height}
}

// Bytes returns a copy of the encoded image.
func (t *Tag) Bytes() []byte {
	return bytes.Clone(t.data)
}

// Len is the encoded size in bytes.
func (t *Tag) Len() int { return len(t.data) }

// Width is the image width in pixels.
func (t *Tag) Width() int { return t.width }

// Height is the image height in pixels.
func (t *Tag) Height() int { return t.height }

// ContentType is always image/jpeg.
func (t *Tag) ContentType() string { return ContentType }

// WriteTo writes the encoded image to w.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.data)
	return int64(n), err
}
