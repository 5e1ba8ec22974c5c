package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"
)

var pdfUpload = domain.FileUpload{Name: "report.pdf", Data: []byte("%PDF-1.4 test")}

func newPDFServiceForTest(toolkit *mockToolkit, extractor *mockExtractor, converter *mockConverter, sources *mockSources) *pdfService {
	if toolkit == nil {
		toolkit = &mockToolkit{}
	}
	if extractor == nil {
		extractor = &mockExtractor{}
	}
	if converter == nil {
		converter = &mockConverter{}
	}
	if sources == nil {
		sources = &mockSources{}
	}
	return NewPDFService(toolkit, extractor, converter, sources, mockLogger{})
}

func wantValidationError(t *testing.T, err error, message string) {
	t.Helper()

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Message != message {
		t.Fatalf("expected message %q, got %q", message, ve.Message)
	}
}

func wantProcessingError(t *testing.T, err error, message string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", appErr.StatusCode)
	}
	if appErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, appErr.Message)
	}
}

func TestPDFService_Compress_NonPDF(t *testing.T) {
	svc := newPDFServiceForTest(nil, nil, nil, nil)

	_, err := svc.Run(context.Background(), []domain.FileUpload{{Name: "notes.txt", Data: []byte("hello")}},
		domain.CompressParams{Level: domain.CompressionMedium})

	wantValidationError(t, err, "File must be a PDF")
}

func TestPDFService_Compress_InvalidLevel(t *testing.T) {
	svc := newPDFServiceForTest(nil, nil, nil, nil)

	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.CompressParams{Level: 7})

	wantValidationError(t, err, "Invalid compression level. Must be between 1 (low) and 4 (maximum)")
}

func TestPDFService_Compress_OK(t *testing.T) {
	toolkit := &mockToolkit{optimized: []byte("%PDF-compressed")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload},
		domain.CompressParams{Level: domain.CompressionMaximum})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}

	if toolkit.lastLevel != domain.CompressionMaximum {
		t.Fatalf("expected level 4 forwarded, got %d", toolkit.lastLevel)
	}
	doc := outcome.Document
	if doc == nil {
		t.Fatalf("expected a document outcome")
	}
	if string(doc.Data) != "%PDF-compressed" {
		t.Fatalf("unexpected document data: %s", doc.Data)
	}
	if doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type: %s", doc.ContentType)
	}
	matched, _ := regexp.MatchString(`^compresspdf_report_\d{8}_\d{6}\.pdf$`, doc.Filename)
	if !matched {
		t.Fatalf("unexpected filename: %s", doc.Filename)
	}
	if doc.Inline {
		t.Fatalf("compressed output must be an attachment")
	}
}

func TestPDFService_Compress_ToolkitFailure(t *testing.T) {
	toolkit := &mockToolkit{err: errors.New("xref broken")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload},
		domain.CompressParams{Level: domain.CompressionMedium})

	wantProcessingError(t, err, "Error compressing PDF")
}

func TestPDFService_Merge_RequiresTwoFiles(t *testing.T) {
	svc := newPDFServiceForTest(nil, nil, nil, nil)

	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.MergeParams{})

	wantValidationError(t, err, "At least two PDF files are required for merging")
}

func TestPDFService_Merge_NamesOffendingFile(t *testing.T) {
	svc := newPDFServiceForTest(nil, nil, nil, nil)

	files := []domain.FileUpload{
		pdfUpload,
		{Name: "notes.txt", Data: []byte("hello")},
	}
	_, err := svc.Run(context.Background(), files, domain.MergeParams{})

	wantValidationError(t, err, "File notes.txt is not a PDF")
}

func TestPDFService_Merge_OrderValidation(t *testing.T) {
	files := []domain.FileUpload{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}

	tests := []struct {
		name  string
		order []int
	}{
		{"wrong length", []int{0}},
		{"out of range", []int{0, 2}},
		{"negative", []int{0, -1}},
		{"duplicate", []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newPDFServiceForTest(nil, nil, nil, nil)
			_, err := svc.Run(context.Background(), files, domain.MergeParams{Order: tt.order})
			wantValidationError(t, err, "merge_order contains invalid indices")
		})
	}
}

func TestPDFService_Merge_AppliesOrder(t *testing.T) {
	toolkit := &mockToolkit{merged: []byte("%PDF-merged")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	files := []domain.FileUpload{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}
	outcome, err := svc.Run(context.Background(), files, domain.MergeParams{Order: []int{1, 0}})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}

	if len(toolkit.lastMerge) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(toolkit.lastMerge))
	}
	if string(toolkit.lastMerge[0]) != "%PDF-b" || string(toolkit.lastMerge[1]) != "%PDF-a" {
		t.Fatalf("merge inputs not reordered: %q, %q", toolkit.lastMerge[0], toolkit.lastMerge[1])
	}
	if !strings.HasPrefix(outcome.Document.Filename, "mergepdf_a_") {
		t.Fatalf("expected filename from first upload, got %s", outcome.Document.Filename)
	}
}

func TestPDFService_Merge_NaturalOrder(t *testing.T) {
	toolkit := &mockToolkit{merged: []byte("%PDF-merged")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	files := []domain.FileUpload{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}
	if _, err := svc.Run(context.Background(), files, domain.MergeParams{}); err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}

	if string(toolkit.lastMerge[0]) != "%PDF-a" || string(toolkit.lastMerge[1]) != "%PDF-b" {
		t.Fatalf("expected natural order, got %q, %q", toolkit.lastMerge[0], toolkit.lastMerge[1])
	}
}

func TestPDFService_View_InlineWithPageCount(t *testing.T) {
	extractor := &mockExtractor{pageCount: 4}
	svc := newPDFServiceForTest(nil, extractor, nil, nil)

	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.ViewParams{})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}

	doc := outcome.Document
	if doc == nil {
		t.Fatalf("expected a document outcome")
	}
	if !doc.Inline {
		t.Fatalf("view must return an inline document")
	}
	if string(doc.Data) != string(pdfUpload.Data) {
		t.Fatalf("view must return the input bytes unchanged")
	}
	if doc.PageCount != 4 {
		t.Fatalf("expected page count 4, got %d", doc.PageCount)
	}
	if !strings.HasPrefix(doc.Filename, "viewpdf_report_") {
		t.Fatalf("unexpected filename: %s", doc.Filename)
	}
}

func TestPDFService_View_PageCountFailureTolerated(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("broken xref")}
	svc := newPDFServiceForTest(nil, extractor, nil, nil)

	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.ViewParams{})
	if err != nil {
		t.Fatalf("view must not fail on a page count error, got %v", err)
	}
	if outcome.Document.PageCount != 0 {
		t.Fatalf("expected unknown page count, got %d", outcome.Document.PageCount)
	}
}

func TestPDFService_ExtractText_Payload(t *testing.T) {
	extractor := &mockExtractor{pages: []domain.PageText{
		{Page: 1, Text: "first"},
		{Page: 2, Text: "second"},
	}}
	svc := newPDFServiceForTest(nil, extractor, nil, nil)

	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.ExtractTextParams{})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}
	if outcome.Document != nil {
		t.Fatalf("extract-text must not return a document")
	}

	payload, ok := outcome.Payload.(domain.TextExtraction)
	if !ok {
		t.Fatalf("expected TextExtraction payload, got %T", outcome.Payload)
	}
	if payload.PageCount != 2 || len(payload.Pages) != 2 || payload.Pages[1].Text != "second" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPDFService_Edit_NoOperations(t *testing.T) {
	svc := newPDFServiceForTest(nil, nil, nil, nil)

	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.EditParams{})

	wantValidationError(t, err, "No valid operations provided")
}

func TestPDFService_Edit_PageRangeErrorPassesThrough(t *testing.T) {
	toolkit := &mockToolkit{err: &domain.ValidationError{Message: "Invalid page number: 9"}}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	ops := []domain.EditOperation{{Type: domain.EditOpDelete, Page: 9, Region: &domain.Region{Width: 10, Height: 10}}}
	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.EditParams{Operations: ops})

	wantValidationError(t, err, "Invalid page number: 9")
}

func TestPDFService_Edit_OK(t *testing.T) {
	toolkit := &mockToolkit{edited: []byte("%PDF-edited")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	ops := []domain.EditOperation{{
		Type:     domain.EditOpText,
		Page:     1,
		Content:  "hello",
		Position: &domain.Position{X: 10, Y: 20},
		FontSize: 12,
	}}
	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.EditParams{Operations: ops})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}

	if len(toolkit.lastOps) != 1 || toolkit.lastOps[0].Content != "hello" {
		t.Fatalf("operations not forwarded: %+v", toolkit.lastOps)
	}
	if !strings.HasPrefix(outcome.Document.Filename, "editpdf_report_") {
		t.Fatalf("unexpected filename: %s", outcome.Document.Filename)
	}
	if outcome.Document.Inline {
		t.Fatalf("edit output must be an attachment")
	}
}

func TestPDFService_Preview_InlineAndDistinctErrors(t *testing.T) {
	toolkit := &mockToolkit{edited: []byte("%PDF-preview")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	ops := []domain.EditOperation{{
		Type:     domain.EditOpText,
		Page:     1,
		Content:  "hello",
		Position: &domain.Position{X: 10, Y: 20},
	}}
	outcome, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload},
		domain.EditParams{Operations: ops, Preview: true})
	if err != nil {
		t.Fatalf("expected outcome, got error %v", err)
	}
	if !outcome.Document.Inline {
		t.Fatalf("preview must return an inline document")
	}
	if !strings.HasPrefix(outcome.Document.Filename, "previewpdf_report_") {
		t.Fatalf("unexpected filename: %s", outcome.Document.Filename)
	}

	// The preview failure message differs from the edit one.
	failing := newPDFServiceForTest(&mockToolkit{err: errors.New("stamp failed")}, nil, nil, nil)
	_, err = failing.Run(context.Background(), []domain.FileUpload{pdfUpload},
		domain.EditParams{Operations: ops, Preview: true})
	wantProcessingError(t, err, "Error generating preview")
}

func TestPDFService_Edit_ToolkitFailure(t *testing.T) {
	toolkit := &mockToolkit{err: errors.New("stamp failed")}
	svc := newPDFServiceForTest(toolkit, nil, nil, nil)

	ops := []domain.EditOperation{{
		Type:     domain.EditOpText,
		Page:     1,
		Content:  "hello",
		Position: &domain.Position{X: 10, Y: 20},
	}}
	_, err := svc.Run(context.Background(), []domain.FileUpload{pdfUpload}, domain.EditParams{Operations: ops})

	wantProcessingError(t, err, "Error editing PDF")
}
