package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/services"
)

func TestListDocumentTypes(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/v1/document-types", "")
	var body ListDocumentTypesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || w.Code != http.StatusOK {
		t.Fatalf("status=%d err=%v", w.Code, err)
	}
	if len(body.DocumentTypes) != 1 || body.DocumentTypes[0].Name != "Prancha de Loja" {
		t.Fatalf("body=%+v", body)
	}
}

func TestCreateDocumentType(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/v1/document-types", `{"name":"Ofício Circular"}`)
	if w.Code != http.StatusCreated || f.types.gotName != "Ofício Circular" {
		t.Fatalf("status=%d name=%q", w.Code, f.types.gotName)
	}
	var dt domain.DocumentType
	_ = json.Unmarshal(w.Body.Bytes(), &dt)
	if dt.Abbreviation != domain.DeriveAbbreviation("Ofício Circular") {
		t.Fatalf("abbreviation=%q", dt.Abbreviation)
	}

	if w := f.do(http.MethodPost, "/api/v1/document-types", `{"name":"   "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("blank name -> %d", w.Code)
	}

	f.types.create = func(context.Context, string, string) (*domain.DocumentType, error) {
		return nil, services.ErrDocumentTypeExists
	}
	w = f.do(http.MethodPost, "/api/v1/document-types", `{"name":"Ata"}`)
	if w.Code != http.StatusConflict || decodeError(t, w).Code != ErrCodeConflict {
		t.Fatalf("duplicate -> %d", w.Code)
	}
}

func TestRenameDocumentType(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPut, "/api/v1/document-types/7", `{"name":"Balancete"}`)
	if w.Code != http.StatusOK || f.types.gotID != 7 || f.types.gotName != "Balancete" {
		t.Fatalf("status=%d id=%d name=%q", w.Code, f.types.gotID, f.types.gotName)
	}
	for _, id := range []string{"0", "-1", "abc"} {
		if w := f.do(http.MethodPut, "/api/v1/document-types/"+id, `{"name":"x"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("id=%s -> %d", id, w.Code)
		}
	}
	f.types.rename = func(context.Context, string, uint, string) (*domain.DocumentType, error) {
		return nil, services.ErrDocumentTypeNotFound
	}
	if w := f.do(http.MethodPut, "/api/v1/document-types/9", `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing -> %d", w.Code)
	}
}

func TestDeleteDocumentType(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodDelete, "/api/v1/document-types/2", "")
	if w.Code != http.StatusNoContent || f.types.gotID != 2 {
		t.Fatalf("status=%d id=%d", w.Code, f.types.gotID)
	}
}

func TestAbbreviationPreview(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/v1/document-types/abbreviation?name=Prancha+de+Loja", "")
	var body AbbreviationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || body.Name != "Prancha de Loja" || body.Abbreviation != domain.DeriveAbbreviation("Prancha de Loja") {
		t.Fatalf("status=%d body=%+v", w.Code, body)
	}
	if w := f.do(http.MethodGet, "/api/v1/document-types/abbreviation", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing name -> %d", w.Code)
	}
}
