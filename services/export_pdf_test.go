package services

import (
	"bytes"
	"testing"
)

func exportDocument() Document {
	ctx := assembleContext()
	ctx.Mode = ModePrint
	return Assemble(standardBlocks(), ctx)
}

func TestGenerateDocumentPDF(t *testing.T) {
	pdf, err := GenerateDocumentPDF(exportDocument())
	if err != nil {
		t.Fatalf("GenerateDocumentPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output does not start with PDF header: %q", pdf[:min(16, len(pdf))])
	}
}

func TestGenerateDocumentPDF_EmptyDocument(t *testing.T) {
	doc := Document{Page: PageSetup{Size: "A4", Orientation: "portrait",
		Margins: PageMargins{Top: 10, Right: 10, Bottom: 10, Left: 10}}}

	pdf, err := GenerateDocumentPDF(doc)
	if err != nil {
		t.Fatalf("empty document should still render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("expected PDF header on empty document")
	}
}

func TestGenerateDocumentPDF_UnknownBlockPlaceholder(t *testing.T) {
	ctx := assembleContext()
	ctx.Mode = ModePrint
	doc := Assemble([]Block{
		{ID: "b1", Type: BlockHeader},
		{ID: "b2", Type: "mystery-block"},
	}, ctx)

	// The unknown block prints a neutral marker rather than vanishing or
	// breaking the export.
	pdf, err := GenerateDocumentPDF(doc)
	if err != nil {
		t.Fatalf("diagnostic section must not break the export: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("expected a PDF")
	}
}

func TestGenerateDocumentPDF_GalleryTheme(t *testing.T) {
	ctx := assembleContext()
	ctx.Mode = ModePrint
	themed := map[string]any{"theme": ThemeGallery}
	doc := Assemble([]Block{
		{ID: "b3", Type: BlockLineItems, Content: themed},
		{ID: "b4", Type: BlockTotals, Content: themed},
	}, ctx)

	if doc.Sections[0].LineItems.Theme != ThemeGallery {
		t.Fatalf("theme not carried: %q", doc.Sections[0].LineItems.Theme)
	}

	pdf, err := GenerateDocumentPDF(doc)
	if err != nil {
		t.Fatalf("gallery theme export failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("expected a PDF")
	}

	// The same document under the classic theme renders too; the theme is
	// presentation only and must never make an export fail.
	ctx2 := assembleContext()
	ctx2.Mode = ModePrint
	classic := Assemble([]Block{
		{ID: "b3", Type: BlockLineItems},
		{ID: "b4", Type: BlockTotals},
	}, ctx2)
	if _, err := GenerateDocumentPDF(classic); err != nil {
		t.Fatalf("classic theme export failed: %v", err)
	}
}

func TestGenerateDocumentPDF_PerEdgeMargins(t *testing.T) {
	doc := exportDocument()
	doc.Page.Margins = PageMargins{Top: 25, Right: 12, Bottom: 30, Left: 18}

	pdf, err := GenerateDocumentPDF(doc)
	if err != nil {
		t.Fatalf("asymmetric margins should render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("expected a PDF")
	}
}

func TestPageOrientationAndSize(t *testing.T) {
	landscape := PageSetup{Orientation: "landscape"}
	if pageOrientation(landscape) == pageOrientation(PageSetup{Orientation: "portrait"}) {
		t.Error("landscape and portrait must map differently")
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{1, "1"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		if got := formatQuantity(tt.in); got != tt.want {
			t.Errorf("formatQuantity(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
