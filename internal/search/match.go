package search

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

// matcher holds the pre-processed predicates of one Query. It owns a Caser,
// which is stateful, so a matcher must not be shared between goroutines.
type matcher struct {
	fold   cases.Caser
	mode   Mode
	text   string
	terms  []string
	status string
	day    *Day
	loc    *time.Location
}

func newMatcher(q Query) *matcher {
	m := &matcher{
		fold:   cases.Fold(),
		mode:   q.Mode,
		status: strings.TrimSpace(q.Status),
		day:    q.Day,
		loc:    q.Location,
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if strings.EqualFold(m.status, StatusAll) {
		m.status = ""
	}
	switch m.mode {
	case ModeShops:
		m.terms = splitTerms(q.Text, m.foldString)
	default:
		m.mode = ModeText
		m.text = m.foldString(strings.TrimSpace(q.Text))
	}
	return m
}

func (m *matcher) foldString(s string) string {
	m.fold.Reset()
	return m.fold.String(s)
}

func (m *matcher) match(r domain.Protocol) bool {
	if m.status != "" && r.EffectiveStatus() != m.status {
		return false
	}
	if m.day != nil && !m.onDay(r) {
		return false
	}
	if m.mode == ModeShops {
		return m.matchShops(r)
	}
	return m.matchText(r)
}

func (m *matcher) matchText(r domain.Protocol) bool {
	if m.text == "" {
		return true
	}
	for _, f := range []string{r.Number, r.ShopNumber, r.DeliveredBy, r.CreatedBy} {
		if strings.Contains(m.foldString(f), m.text) {
			return true
		}
	}
	return false
}

// matchShops is an OR over the comma-separated terms; no terms matches all.
func (m *matcher) matchShops(r domain.Protocol) bool {
	if len(m.terms) == 0 {
		return true
	}
	shop := m.foldString(r.ShopNumber)
	for _, t := range m.terms {
		if strings.Contains(shop, t) {
			return true
		}
	}
	return false
}

func (m *matcher) onDay(r domain.Protocol) bool {
	ts, ok := r.CreatedTime()
	if !ok {
		return false
	}
	y, mo, d := ts.In(m.loc).Date()
	return y == m.day.Year && mo == m.day.Month && d == m.day.Day
}

// splitTerms splits s on commas, trims and folds each term, and drops empties.
func splitTerms(s string, fold func(string) string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, fold(t))
		}
	}
	return out
}
