package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/repo"
)

// ----- Fake store -----

// fakeStore is an in-memory Store with injectable failures and captured args.
type fakeStore struct {
	mu sync.Mutex

	protocols []domain.Protocol
	deleted   map[string]bool
	types     []domain.DocumentType
	activity  []domain.ActivityLog

	// capture args
	numbersPrefix string
	listMax       int
	createCalls   int

	// injected failures
	numbersErr  error
	createErrs  []error // consumed one per CreateProtocol call
	updateErr   error
	listErr     error
	appendErr   error
	typesErr    error
	blockOnScan bool // NumbersForYear waits for ctx to expire
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deleted: map[string]bool{},
		types: []domain.DocumentType{
			{ID: 1, Name: "Prancha de Loja", Abbreviation: "PD"},
			{ID: 2, Name: "Ata", Abbreviation: "ATA"},
		},
	}
}

func (f *fakeStore) NumbersForYear(ctx context.Context, yearPrefix string) ([]string, error) {
	if f.blockOnScan {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numbersPrefix = yearPrefix
	if f.numbersErr != nil {
		return nil, f.numbersErr
	}
	var out []string
	for _, p := range f.protocols {
		if strings.HasPrefix(p.Number, yearPrefix) {
			out = append(out, p.Number)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateProtocol(ctx context.Context, p *domain.Protocol) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, e := range f.protocols {
		if e.Number == p.Number {
			return repo.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.protocols = append(f.protocols, *p)
	return nil
}

func (f *fakeStore) GetProtocol(ctx context.Context, id string) (*domain.Protocol, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.protocols {
		if p.ID == id && !f.deleted[id] {
			cp := p
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) UpdateProtocol(ctx context.Context, p *domain.Protocol) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, e := range f.protocols {
		if e.ID == p.ID && !f.deleted[p.ID] {
			f.protocols[i] = *p
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStore) DeleteProtocol(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.protocols {
		if e.ID == id && !f.deleted[id] {
			f.deleted[id] = true
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStore) ListProtocols(ctx context.Context, max int) ([]domain.Protocol, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listMax = max
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Protocol
	for _, p := range f.protocols {
		if !f.deleted[p.ID] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (f *fakeStore) ProtocolsStats(ctx context.Context) (int64, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.protocols {
		if !f.deleted[p.ID] {
			n++
		}
	}
	return n, nil, nil
}

func (f *fakeStore) DocumentTypesStats(ctx context.Context) (int64, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typesErr != nil {
		return 0, nil, f.typesErr
	}
	return int64(len(f.types)), nil, nil
}

func (f *fakeStore) ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return append([]domain.DocumentType(nil), f.types...), nil
}

func (f *fakeStore) GetDocumentType(ctx context.Context, id uint) (*domain.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.types {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) CreateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max uint
	for _, e := range f.types {
		if e.ID > max {
			max = e.ID
		}
	}
	t.ID = max + 1
	t.Abbreviation = domain.DeriveAbbreviation(t.Name)
	f.types = append(f.types, *t)
	return nil
}

func (f *fakeStore) UpdateDocumentType(ctx context.Context, t *domain.DocumentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.types {
		if e.ID == t.ID {
			f.types[i].Name = t.Name
			f.types[i].Abbreviation = domain.DeriveAbbreviation(t.Name)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStore) DeleteDocumentType(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.types {
		if e.ID == id {
			f.types = append(f.types[:i], f.types[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStore) AppendActivity(ctx context.Context, a *domain.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	f.activity = append([]domain.ActivityLog{*a}, f.activity...)
	return nil
}

func (f *fakeStore) ListActivity(ctx context.Context, offset, limit int) ([]domain.ActivityLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.activity))
	if offset >= len(f.activity) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(f.activity) {
		end = len(f.activity)
	}
	return append([]domain.ActivityLog(nil), f.activity[offset:end]...), total, nil
}

func (f *fakeStore) DeleteActivity(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.activity {
		if a.ID == id {
			f.activity = append(f.activity[:i], f.activity[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeStore) ClearActivity(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity = nil
	return nil
}

func (f *fakeStore) Invalidate() {}

// numbers returns every stored protocol number, deleted ones included.
func (f *fakeStore) numbers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.protocols))
	for _, p := range f.protocols {
		out = append(out, p.Number)
	}
	return out
}
