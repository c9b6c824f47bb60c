// Package search implements the record query engine: a deterministic filter,
// sort and paginate pass over an in-memory collection of protocols.
//
//   - Pure: Apply never mutates its input and never logs
//   - Deterministic: identical inputs yield identical pages
//   - Stable: records with equal sort keys keep their input order
//   - Forgiving: stale page numbers clamp to the last page instead of failing
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/protocolnum"
	"github.com/tbourn/go-protocol-backend/internal/utils"
)

// Mode selects how Query.Text is matched.
type Mode string

const (
	// ModeText matches the text as one case-insensitive substring against the
	// protocol number, shop number, deliverer and creator.
	ModeText Mode = "text"
	// ModeShops splits the text on commas and matches records whose shop
	// number contains any of the terms.
	ModeShops Mode = "shops"
)

// SortKey names the field a page is ordered by.
type SortKey string

const (
	SortCreatedAt      SortKey = "created_at"
	SortProtocolNumber SortKey = "protocol_number"
	SortShopNumber     SortKey = "shop_number"
)

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// DefaultPageSize is used when Query.PageSize is not positive.
const DefaultPageSize = 20

// Day is a calendar date without a time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Day) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

// Query describes one request for a page of records. Zero values mean "no
// filter", sort by creation time descending, first page.
type Query struct {
	Text     string
	Mode     Mode
	Status   string
	Day      *Day
	Location *time.Location
	Sort     SortKey
	Order    Order
	Page     int
	PageSize int
}

// Page is the result of Apply.
type Page struct {
	Items      []domain.Protocol `json:"items"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	HasNext    bool              `json:"has_next"`
}

// Validate reports unknown enum values. Empty values are accepted.
func (q Query) Validate() error {
	switch q.Mode {
	case "", ModeText, ModeShops:
	default:
		return fmt.Errorf("unknown mode %q", q.Mode)
	}
	switch q.Sort {
	case "", SortCreatedAt, SortProtocolNumber, SortShopNumber:
	default:
		return fmt.Errorf("unknown sort key %q", q.Sort)
	}
	switch q.Order {
	case "", Asc, Desc:
	default:
		return fmt.Errorf("unknown order %q", q.Order)
	}
	return nil
}

// Apply filters, sorts and paginates records according to q. The input slice
// and its elements are left untouched; Items is a fresh slice.
func Apply(records []domain.Protocol, q Query) Page {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	m := newMatcher(q)
	filtered := make([]domain.Protocol, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			filtered = append(filtered, r)
		}
	}

	sortRecords(filtered, q.Sort, q.Order)

	total := len(filtered)
	pages := utils.TotalPages(total, size)
	page := utils.ClampPage(q.Page, pages)
	start, end := utils.PageBounds(page, size, total)

	items := make([]domain.Protocol, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:      items,
		Total:      total,
		TotalPages: pages,
		Page:       page,
		PageSize:   size,
		HasNext:    page < pages,
	}
}

func sortRecords(rs []domain.Protocol, key SortKey, order Order) {
	var less func(a, b *domain.Protocol) int
	switch key {
	case SortProtocolNumber:
		less = func(a, b *domain.Protocol) int { return protocolnum.Compare(a.Number, b.Number) }
	case SortShopNumber:
		less = func(a, b *domain.Protocol) int {
			return cmpInt64(int64(shopValue(a.ShopNumber)), int64(shopValue(b.ShopNumber)))
		}
	default:
		less = func(a, b *domain.Protocol) int { return cmpInt64(a.CreatedAt, b.CreatedAt) }
	}

	desc := order == Desc || (order == "" && (key == "" || key == SortCreatedAt))
	sort.SliceStable(rs, func(i, j int) bool {
		c := less(&rs[i], &rs[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// shopValue reads a shop number numerically; non-numeric values count as 0.
func shopValue(s string) int {
	return utils.AtoiDefault(strings.TrimSpace(s), 0)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
