package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"tagrender/internal/pkg/errors"
	"tagrender/internal/tag"
)

// Dimension limits accepted by the API.
const (
	MaxHeight = 2048
	MaxWidth  = 4096
)

// body is a decoded JSON object whose fields are checked one by one, so
// every violation can be reported with its German message.
type body map[string]json.RawMessage

type issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validator struct {
	issues []issue
}

func (v *validator) fail(field, msg string) {
	v.issues = append(v.issues, issue{Field: field, Message: msg})
}

// err reports the first issue as the message and all of them as details.
func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return errors.ValidationField(v.issues[0].Field, v.issues[0].Message).
		WithField("issues", v.issues)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type stringRule struct {
	field    string
	required string
	invalid  string
}

var (
	ruleName      = stringRule{"name", "Name wird benötigt", "Name muss ein String sein"}
	ruleDate      = stringRule{"date", "Datum wird benötigt", "Datum muss ein String sein"}
	ruleURL       = stringRule{"url", "URL wird benötigt", "URL muss ein String sein"}
	ruleEventDesc = stringRule{"desc", "Terminbeschreibung wird benötigt", "Terminbeschreibung muss ein String sein"}
	ruleStart     = stringRule{"start", "Startzeit wird benötigt", "Startzeit muss ein String sein"}
	ruleEnd       = stringRule{"end", "Endzeit wird benötigt", "Endzeit muss ein String sein"}
)

func (v *validator) str(b body, rule stringRule, prefix string) string {
	field := prefix + rule.field
	raw, ok := b[rule.field]
	if !ok {
		v.fail(field, rule.required)
		return ""
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		v.fail(field, rule.invalid)
		return ""
	}
	return s
}

type dimensionRule struct {
	field    string
	max      int
	required string
	invalid  string
	tooSmall string
	tooLarge string
}

var (
	ruleHeight = dimensionRule{
		field:    "height",
		max:      MaxHeight,
		required: "Höhe wird benötigt",
		invalid:  "Höhe muss eine Zahl sein",
		tooSmall: "Höhe muss eine positive Zahl größer 0 sein",
		tooLarge: "Höhe muss eine positive Zahl kleiner 2048 sein",
	}
	ruleWidth = dimensionRule{
		field:    "width",
		max:      MaxWidth,
		required: "Breite wird benötigt",
		invalid:  "Breite muss eine Zahl sein",
		tooSmall: "Breite muss eine positive Zahl größer 0 sein",
		tooLarge: "Breite muss eine positive Zahl kleiner 4096 sein",
	}
)

// dimension accepts a JSON number or a numeric string. Fractions are
// truncated toward zero after the range check.
func (v *validator) dimension(b body, rule dimensionRule) int {
	raw, ok := b[rule.field]
	if !ok {
		v.fail(rule.field, rule.required)
		return 0
	}
	n, ok := coerceNumber(raw)
	if !ok {
		v.fail(rule.field, rule.invalid)
		return 0
	}
	switch {
	case n < 1:
		v.fail(rule.field, rule.tooSmall)
		return 0
	case n > float64(rule.max):
		v.fail(rule.field, rule.tooLarge)
		return 0
	}
	return int(n)
}

func coerceNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func (v *validator) events(b body) []tag.Event {
	raw, ok := b["events"]
	if !ok {
		v.fail("events", "Events werden benötigt")
		return nil
	}
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		v.fail("events", "Events müssen ein Array sein")
		return nil
	}

	events := make([]tag.Event, 0, len(items))
	for i, item := range items {
		prefix := "events." + strconv.Itoa(i) + "."
		var eb body
		if isNull(item) || json.Unmarshal(item, &eb) != nil {
			v.fail(strings.TrimSuffix(prefix, "."), "Termin muss ein Objekt sein")
			continue
		}
		events = append(events, tag.Event{
			Desc:  v.str(eb, ruleEventDesc, prefix),
			Start: v.str(eb, ruleStart, prefix),
			End:   v.str(eb, ruleEnd, prefix),
		})
	}
	return events
}

type dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type configureRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

func parseDimensions(b body) (dimensions, error) {
	var v validator
	d := dimensions{
		Height: v.dimension(b, ruleHeight),
		Width:  v.dimension(b, ruleWidth),
	}
	return d, v.err()
}

func parseSchedule(b body) (tag.ScheduleRequest, error) {
	var v validator
	req := tag.ScheduleRequest{
		Name:   v.str(b, ruleName, ""),
		Date:   v.str(b, ruleDate, ""),
		Height: v.dimension(b, ruleHeight),
		Width:  v.dimension(b, ruleWidth),
		Events: v.events(b),
	}
	return req, v.err()
}

func parseConfigure(b body) (configureRequest, error) {
	var v validator
	req := configureRequest{
		Height: v.dimension(b, ruleHeight),
		Width:  v.dimension(b, ruleWidth),
		URL:    v.str(b, ruleURL, ""),
	}
	return req, v.err()
}
