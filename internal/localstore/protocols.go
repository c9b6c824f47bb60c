package localstore

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
	"github.com/tbourn/go-protocol-backend/internal/utils"
)

// protocolDoc is the stored shape of a protocol. created_at is kept raw so
// snapshots written by older clients (timestamp objects, date strings,
// milliseconds) decode through the normalizer. Deleted protocols stay in the
// bucket with deleted_at set so their numbers remain reserved.
type protocolDoc struct {
	domain.Protocol
	CreatedAt json.RawMessage `json:"created_at"`
	DeletedAt *int64          `json:"deleted_at,omitempty"`
}

func (d protocolDoc) toDomain() domain.Protocol {
	p := d.Protocol
	ts, ok := utils.NormalizeTimestamp(d.CreatedAt)
	if !ok {
		log.Warn().Str("protocol_number", p.Number).RawJSON("created_at", safeRaw(d.CreatedAt)).
			Msg("unreadable created_at; treating as unknown")
	}
	p.CreatedAt = ts
	return p
}

func fromDomain(p domain.Protocol) protocolDoc {
	return protocolDoc{
		Protocol:  p,
		CreatedAt: json.RawMessage(strconv.FormatInt(p.CreatedAt, 10)),
	}
}

func safeRaw(b json.RawMessage) []byte {
	if json.Valid(b) {
		return b
	}
	return []byte(strconv.Quote(string(b)))
}

func (s *Store) protocols(ctx context.Context) ([]protocolDoc, error) {
	var docs []protocolDoc
	if err := s.read(ctx, BucketProtocols, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) NumbersForYear(ctx context.Context, yearPrefix string) ([]string, error) {
	docs, err := s.protocols(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range docs {
		if strings.HasPrefix(d.Number, yearPrefix) {
			out = append(out, d.Number)
		}
	}
	return out, nil
}

func (s *Store) CreateProtocol(ctx context.Context, p *domain.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.protocols(ctx)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.Number == p.Number {
			return repo.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	p.UpdatedAt = s.now().UTC()

	next := make([]protocolDoc, len(docs), len(docs)+1)
	copy(next, docs)
	next = append(next, fromDomain(*p))
	return s.write(ctx, BucketProtocols, next)
}

func (s *Store) GetProtocol(ctx context.Context, id string) (*domain.Protocol, error) {
	docs, err := s.protocols(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == id && d.DeletedAt == nil {
			p := d.toDomain()
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Store) UpdateProtocol(ctx context.Context, p *domain.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.protocols(ctx)
	if err != nil {
		return err
	}
	next := make([]protocolDoc, len(docs))
	copy(next, docs)
	for i, d := range next {
		if d.ID != p.ID || d.DeletedAt != nil {
			continue
		}
		cur := d.Protocol
		cur.ShopNumber = p.ShopNumber
		cur.DeliveredBy = p.DeliveredBy
		cur.DocumentTypeID = p.DocumentTypeID
		cur.Quantity = p.Quantity
		cur.Observations = p.Observations
		cur.Status = p.Status
		cur.UpdatedBy = p.UpdatedBy
		cur.ArchivedBy = p.ArchivedBy
		cur.ArchivedAt = p.ArchivedAt
		cur.UpdatedAt = s.now().UTC()
		next[i] = protocolDoc{Protocol: cur, CreatedAt: d.CreatedAt}
		p.UpdatedAt = cur.UpdatedAt
		return s.write(ctx, BucketProtocols, next)
	}
	return repo.ErrNotFound
}

func (s *Store) DeleteProtocol(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.protocols(ctx)
	if err != nil {
		return err
	}
	next := make([]protocolDoc, len(docs))
	copy(next, docs)
	for i, d := range next {
		if d.ID != id || d.DeletedAt != nil {
			continue
		}
		now := s.now().Unix()
		d.DeletedAt = &now
		d.Protocol.UpdatedAt = s.now().UTC()
		next[i] = d
		return s.write(ctx, BucketProtocols, next)
	}
	return repo.ErrNotFound
}

// ListProtocols returns up to max live protocols, newest first.
func (s *Store) ListProtocols(ctx context.Context, max int) ([]domain.Protocol, error) {
	docs, err := s.protocols(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Protocol, 0, len(docs))
	for _, d := range docs {
		if d.DeletedAt == nil {
			out = append(out, d.toDomain())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (s *Store) ProtocolsStats(ctx context.Context) (int64, *time.Time, error) {
	docs, err := s.protocols(ctx)
	if err != nil {
		return 0, nil, err
	}
	var (
		count  int64
		latest time.Time
	)
	for _, d := range docs {
		if d.DeletedAt != nil {
			continue
		}
		count++
		if d.Protocol.UpdatedAt.After(latest) {
			latest = d.Protocol.UpdatedAt
		}
	}
	if count == 0 {
		return 0, nil, nil
	}
	return count, &latest, nil
}
