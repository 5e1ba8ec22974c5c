package domain

import (
	"strings"
	"testing"
)

func TestExportFormat(t *testing.T) {
	spec, ok := ExportFormat("xlsx")
	if !ok {
		t.Fatalf("xlsx must be an export target")
	}
	if spec.MIME != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected MIME: %s", spec.MIME)
	}

	// Lookup ignores case and a leading dot.
	if _, ok := ExportFormat(".PNG"); !ok {
		t.Fatalf("dotted uppercase lookup must work")
	}

	// docx can be converted to PDF but a PDF cannot be exported to docx.
	if _, ok := ExportFormat("docx"); ok {
		t.Fatalf("docx must not be an export target")
	}
	if _, ok := ExportFormat("exe"); ok {
		t.Fatalf("exe must be unknown")
	}
}

func TestConvertFormat(t *testing.T) {
	spec, ok := ConvertFormat("docx")
	if !ok {
		t.Fatalf("docx must be a conversion source")
	}
	if spec.Category != FormatCategoryOffice {
		t.Fatalf("expected office category, got %s", spec.Category)
	}

	spec, ok = ConvertFormat("tiff")
	if !ok {
		t.Fatalf("tiff must be a conversion source")
	}
	if spec.Category != FormatCategoryImage {
		t.Fatalf("expected image category, got %s", spec.Category)
	}

	if _, ok := ConvertFormat("pdf"); ok {
		t.Fatalf("pdf must not be a conversion source")
	}
}

func TestSupportedFormatLists(t *testing.T) {
	wantExport := "xlsx, txt, html, png, jpg, jpeg"
	if got := strings.Join(SupportedExportFormats(), ", "); got != wantExport {
		t.Fatalf("expected export list %q, got %q", wantExport, got)
	}

	converts := SupportedConvertFormats()
	if len(converts) != 13 {
		t.Fatalf("expected 13 conversion sources, got %d", len(converts))
	}
	for _, ext := range converts {
		if !strings.HasPrefix(ext, ".") {
			t.Fatalf("conversion sources are listed dotted, got %q", ext)
		}
	}
	if converts[0] != ".docx" {
		t.Fatalf("expected .docx first, got %s", converts[0])
	}
}
