package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/backup"
	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/http/middleware"
	"github.com/tbourn/go-protocol-backend/internal/search"
	"github.com/tbourn/go-protocol-backend/internal/services"
)

// ---------- protocol service stub ----------

type stubProtocols struct {
	create      func(context.Context, services.CreateInput) (*domain.Protocol, error)
	allocate    func(context.Context, int) (string, error)
	get         func(context.Context, string) (*services.ProtocolView, error)
	update      func(context.Context, string, services.UpdateInput) (*domain.Protocol, error)
	archive     func(context.Context, string, string) (*domain.Protocol, error)
	del         func(context.Context, string, string) error
	query       func(context.Context, search.Query) (*services.ProtocolPage, error)
	stats       func(context.Context) (search.Stats, error)
	fingerprint func(context.Context) (services.Fingerprint, error)

	// captured
	mu          sync.Mutex
	createCalls int
	gotCreate   services.CreateInput
	gotUpdate   services.UpdateInput
	gotQuery    search.Query
	gotYear     int
	gotUser     string
}

func (s *stubProtocols) Create(ctx context.Context, in services.CreateInput) (*domain.Protocol, error) {
	s.mu.Lock()
	s.createCalls++
	s.gotCreate = in
	s.mu.Unlock()
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Protocol{ID: "11111111-1111-4111-8111-111111111111", Number: "GLESP-2025-001"}, nil
}

func (s *stubProtocols) AllocateProtocolNumber(ctx context.Context, year int) (string, error) {
	s.gotYear = year
	if s.allocate != nil {
		return s.allocate(ctx, year)
	}
	return "GLESP-2025-004", nil
}

func (s *stubProtocols) Get(ctx context.Context, id string) (*services.ProtocolView, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &services.ProtocolView{
		Protocol:                 domain.Protocol{ID: id, Number: "GLESP-2025-001"},
		DocumentTypeName:         "Ata",
		DocumentTypeAbbreviation: "ATA",
	}, nil
}

func (s *stubProtocols) Update(ctx context.Context, id string, in services.UpdateInput) (*domain.Protocol, error) {
	s.gotUpdate = in
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.Protocol{ID: id}, nil
}

func (s *stubProtocols) Archive(ctx context.Context, id, userID string) (*domain.Protocol, error) {
	s.gotUser = userID
	if s.archive != nil {
		return s.archive(ctx, id, userID)
	}
	return &domain.Protocol{ID: id, Status: domain.StatusArchived}, nil
}

func (s *stubProtocols) Delete(ctx context.Context, id, userID string) error {
	s.gotUser = userID
	if s.del != nil {
		return s.del(ctx, id, userID)
	}
	return nil
}

func (s *stubProtocols) Query(ctx context.Context, q search.Query) (*services.ProtocolPage, error) {
	s.gotQuery = q
	if s.query != nil {
		return s.query(ctx, q)
	}
	return &services.ProtocolPage{Items: []services.ProtocolView{}, Page: 1, PageSize: q.PageSize}, nil
}

func (s *stubProtocols) Stats(ctx context.Context) (search.Stats, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return search.Stats{Total: 3, Today: 1, Active: 2, Archived: 1}, nil
}

func (s *stubProtocols) Fingerprint(ctx context.Context) (services.Fingerprint, error) {
	if s.fingerprint != nil {
		return s.fingerprint(ctx)
	}
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return services.Fingerprint{Protocols: 3, ProtocolsUpdated: &ts, Types: 2, TypesUpdated: &ts}, nil
}

// ---------- document type service stub ----------

type stubTypes struct {
	list   func(context.Context) ([]domain.DocumentType, error)
	create func(context.Context, string, string) (*domain.DocumentType, error)
	rename func(context.Context, string, uint, string) (*domain.DocumentType, error)
	del    func(context.Context, string, uint) error

	gotID   uint
	gotName string
}

func (s *stubTypes) List(ctx context.Context) ([]domain.DocumentType, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return []domain.DocumentType{{ID: 1, Name: "Prancha de Loja", Abbreviation: "PD"}}, nil
}

func (s *stubTypes) Create(ctx context.Context, userID, name string) (*domain.DocumentType, error) {
	s.gotName = name
	if s.create != nil {
		return s.create(ctx, userID, name)
	}
	return &domain.DocumentType{ID: 3, Name: name, Abbreviation: domain.DeriveAbbreviation(name)}, nil
}

func (s *stubTypes) Rename(ctx context.Context, userID string, id uint, name string) (*domain.DocumentType, error) {
	s.gotID, s.gotName = id, name
	if s.rename != nil {
		return s.rename(ctx, userID, id, name)
	}
	return &domain.DocumentType{ID: id, Name: name, Abbreviation: domain.DeriveAbbreviation(name)}, nil
}

func (s *stubTypes) Delete(ctx context.Context, userID string, id uint) error {
	s.gotID = id
	if s.del != nil {
		return s.del(ctx, userID, id)
	}
	return nil
}

func (s *stubTypes) Abbreviation(name string) string { return domain.DeriveAbbreviation(name) }

// ---------- activity service stub ----------

type stubActivity struct {
	listPage func(context.Context, int, int) ([]domain.ActivityLog, int64, error)
	del      func(context.Context, string) error
	cleared  bool

	gotPage, gotPageSize int
}

func (s *stubActivity) ListPage(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error) {
	s.gotPage, s.gotPageSize = page, pageSize
	if s.listPage != nil {
		return s.listPage(ctx, page, pageSize)
	}
	return []domain.ActivityLog{}, 0, nil
}

func (s *stubActivity) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

func (s *stubActivity) Clear(context.Context) error {
	s.cleared = true
	return nil
}

// ---------- transfer service stub ----------

type stubTransfer struct {
	export  func(context.Context) (*services.Bundle, error)
	imp     func(context.Context, string, services.ImportBundle) (*services.ImportResult, error)
	backup  func(context.Context, string) (*backup.Info, error)
	backups func(context.Context) ([]backup.Info, error)

	gotBundle services.ImportBundle
}

func (s *stubTransfer) Export(ctx context.Context) (*services.Bundle, error) {
	if s.export != nil {
		return s.export(ctx)
	}
	return &services.Bundle{
		Protocols:     []domain.Protocol{},
		DocumentTypes: []domain.DocumentType{},
		ExportDate:    time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Version:       services.BundleVersion,
	}, nil
}

func (s *stubTransfer) Import(ctx context.Context, userID string, b services.ImportBundle) (*services.ImportResult, error) {
	s.gotBundle = b
	if s.imp != nil {
		return s.imp(ctx, userID, b)
	}
	return &services.ImportResult{Imported: len(b.Protocols)}, nil
}

func (s *stubTransfer) Backup(ctx context.Context, userID string) (*backup.Info, error) {
	if s.backup != nil {
		return s.backup(ctx, userID)
	}
	return &backup.Info{Key: "exports/2025-03-10T14-30-00Z.json", Size: 42}, nil
}

func (s *stubTransfer) Backups(ctx context.Context) ([]backup.Info, error) {
	if s.backups != nil {
		return s.backups(ctx)
	}
	return []backup.Info{}, nil
}

// ---------- idempotency stub ----------

type memIdem struct {
	mu   sync.Mutex
	recs map[string]string
}

func newMemIdem() *memIdem { return &memIdem{recs: map[string]string{}} }

func (m *memIdem) Find(_ context.Context, userID, scope, key string, _ time.Time) (string, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.recs[userID+"|"+scope+"|"+key]
	return id, http.StatusCreated, ok
}

func (m *memIdem) Remember(_ context.Context, userID, scope, key, resourceID string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[userID+"|"+scope+"|"+key] = resourceID
	return nil
}

// ---------- router + request helpers ----------

type fixture struct {
	protocols *stubProtocols
	types     *stubTypes
	activity  *stubActivity
	transfer  *stubTransfer
	idem      *memIdem
	r         *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		protocols: &stubProtocols{},
		types:     &stubTypes{},
		activity:  &stubActivity{},
		transfer:  &stubTransfer{},
		idem:      newMemIdem(),
	}
	h := New(f.protocols, f.types, f.activity, f.transfer, f.idem, Options{DefaultPageSize: 20})
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.UserID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	h.Register(r.Group("/api/v1"))
	f.r = r
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return er
}
