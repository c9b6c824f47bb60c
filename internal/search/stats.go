package search

import (
	"time"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// Stats summarizes a collection of protocols for the dashboard.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
}

// Summarize counts records overall, created on now's calendar day in loc, and
// per status.
func Summarize(records []domain.Protocol, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc)
	day := Day{Year: today.Year(), Month: today.Month(), Day: today.Day()}
	m := &matcher{day: &day, loc: loc}

	var s Stats
	for _, r := range records {
		s.Total++
		if m.onDay(r) {
			s.Today++
		}
		switch r.EffectiveStatus() {
		case domain.StatusArchived:
			s.Archived++
		case domain.StatusActive:
			s.Active++
		}
	}
	return s
}
