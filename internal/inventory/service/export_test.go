package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func newExportFixture(t *testing.T) (*ExportService, *draftFixture, string) {
	t.Helper()
	f := newDraftFixture(t, draftTestProducts())
	sessionID := sessionWithProposals(t, f)
	drafts, err := f.draft.CreateOrderDrafts(context.Background(), sessionID, CreateDraftsRequest{})
	if err != nil {
		t.Fatalf("create drafts: %v", err)
	}
	var brewID string
	for _, d := range drafts {
		if d.SupplierID == "sup-brew" {
			brewID = d.ID
		}
	}
	if brewID == "" {
		t.Fatal("missing sup-brew draft")
	}
	return NewExportService(f.draft, nil, ""), f, brewID
}

func TestExportCSV(t *testing.T) {
	svc, f, draftID := newExportFixture(t)

	result, err := svc.ExportCSV(context.Background(), draftID, false)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.ContentType != "text/csv" {
		t.Errorf("content type = %s, want text/csv", result.ContentType)
	}
	if !strings.HasSuffix(result.FileName, ".csv") {
		t.Errorf("file name = %s, want .csv suffix", result.FileName)
	}

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Header plus one row per line item.
	if len(records) != 3 {
		t.Fatalf("row count = %d, want 3", len(records))
	}
	if records[0][1] != "商品" {
		t.Errorf("header = %v, want product column", records[0])
	}
	if records[1][1] != "Amber Ale" || records[2][1] != "Crisp Lager" {
		t.Errorf("rows out of order: %v / %v", records[1], records[2])
	}

	// A successful export advances the draft.
	draft, err := f.draft.Get(context.Background(), draftID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Status != entity.DraftStatusExported {
		t.Errorf("status = %s, want EXPORTED", draft.Status)
	}
}

func TestExportCSVGBKEncoding(t *testing.T) {
	svc, _, draftID := newExportFixture(t)

	utf8Result, err := svc.ExportCSV(context.Background(), draftID, false)
	if err != nil {
		t.Fatalf("utf8 export: %v", err)
	}
	gbkResult, err := svc.ExportCSV(context.Background(), draftID, true)
	if err != nil {
		t.Fatalf("gbk export: %v", err)
	}
	if bytes.Equal(utf8Result.Data, gbkResult.Data) {
		t.Fatal("gbk output identical to utf8, encoding not applied")
	}

	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), gbkResult.Data)
	if err != nil {
		t.Fatalf("decode gbk: %v", err)
	}
	if !bytes.Equal(decoded, utf8Result.Data) {
		t.Error("gbk output does not round-trip back to utf8")
	}
}

func TestExportXLSX(t *testing.T) {
	svc, f, draftID := newExportFixture(t)

	result, err := svc.ExportXLSX(context.Background(), draftID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX is a zip container.
	if !bytes.HasPrefix(result.Data, []byte("PK")) {
		t.Error("output is not a zip archive")
	}
	if !strings.HasSuffix(result.FileName, ".xlsx") {
		t.Errorf("file name = %s, want .xlsx suffix", result.FileName)
	}

	draft, err := f.draft.Get(context.Background(), draftID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Status != entity.DraftStatusExported {
		t.Errorf("status = %s, want EXPORTED", draft.Status)
	}
}

// Re-exporting a draft that moved past DRAFT keeps its status untouched.
func TestExportKeepsAdvancedStatus(t *testing.T) {
	svc, f, draftID := newExportFixture(t)

	if _, err := svc.ExportCSV(context.Background(), draftID, false); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if _, err := f.draft.Finalize(context.Background(), draftID); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := svc.ExportCSV(context.Background(), draftID, false); err != nil {
		t.Fatalf("re-export: %v", err)
	}

	draft, err := f.draft.Get(context.Background(), draftID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Status != entity.DraftStatusFinalized {
		t.Errorf("status = %s, want FINALIZED unchanged", draft.Status)
	}
}

func TestExportUnknownDraft(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	if _, err := svc.ExportCSV(context.Background(), "missing", false); err == nil {
		t.Error("expected error for unknown draft")
	}
	if _, err := svc.ExportXLSX(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown draft")
	}
}
