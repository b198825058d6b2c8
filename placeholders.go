package gocert

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder tokens recognized in title, subtitle, body and footer text.
const (
	TokenUserName       = "{userName}"
	TokenEventName      = "{eventName}"
	TokenEventDate      = "{eventDate}"
	TokenEventTime      = "{eventTime}"
	TokenEventStartTime = "{eventStartTime}"
	TokenEventEndTime   = "{eventEndTime}"
)

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDatePT formats d as a long Brazilian Portuguese date, e.g.
// "10 de maio de 2024". The zero time formats as an empty string.
func FormatDatePT(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d", d.Day(), monthsPT[d.Month()-1], d.Year())
}

// EventTime describes the event schedule for the {eventTime} token:
// "09:00 às 17:00", or the start time alone when no end time is known.
func (d CertificateData) EventTime() string {
	start, end := strings.TrimSpace(d.StartTime), strings.TrimSpace(d.EndTime)
	switch {
	case start != "" && end != "":
		return start + " às " + end
	case start != "":
		return start
	default:
		return end
	}
}

// Substitutor replaces placeholder tokens with participant data. Replacement
// is literal; replacement values are never re-scanned for tokens.
type Substitutor struct {
	r *strings.Replacer
}

// NewSubstitutor builds the token table for d.
func NewSubstitutor(d CertificateData) Substitutor {
	return Substitutor{r: strings.NewReplacer(
		TokenUserName, d.ParticipantName,
		TokenEventName, d.EventName,
		TokenEventDate, FormatDatePT(d.EventDate),
		TokenEventTime, d.EventTime(),
		TokenEventStartTime, strings.TrimSpace(d.StartTime),
		TokenEventEndTime, strings.TrimSpace(d.EndTime),
	)}
}

// Apply substitutes every token in text.
func (s Substitutor) Apply(text string) string {
	if s.r == nil || text == "" {
		return text
	}
	return s.r.Replace(text)
}
