package service

import (
	"context"
	"fmt"
	"time"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"
)

const pdfContentType = "application/pdf"

// pdfService runs one operation per request. It owns no state beyond its
// collaborators; every call works on the uploads it is handed.
type pdfService struct {
	toolkit   domain.PDFToolkit
	extractor domain.TextExtractor
	converter domain.OfficeConverter
	sources   domain.SourceRepository
	logger    domain.Logger
}

// NewPDFService creates the operation service.
func NewPDFService(
	toolkit domain.PDFToolkit,
	extractor domain.TextExtractor,
	converter domain.OfficeConverter,
	sources domain.SourceRepository,
	logger domain.Logger,
) *pdfService {
	return &pdfService{
		toolkit:   toolkit,
		extractor: extractor,
		converter: converter,
		sources:   sources,
		logger:    logger,
	}
}

// Run dispatches on the concrete parameter record. The set of records is
// closed; an unknown one is a programming error, not caller input.
func (s *pdfService) Run(ctx context.Context, files []domain.FileUpload, params domain.OperationParams) (*domain.OperationOutcome, error) {
	kind := params.Kind()
	start := time.Now()

	var (
		outcome *domain.OperationOutcome
		err     error
	)
	switch p := params.(type) {
	case domain.CompressParams:
		outcome, err = s.compress(ctx, files, p)
	case domain.MergeParams:
		outcome, err = s.merge(ctx, files, p)
	case domain.EditParams:
		outcome, err = s.edit(ctx, files, p)
	case domain.ExportParams:
		outcome, err = s.export(ctx, files, p)
	case domain.ConvertParams:
		outcome, err = s.convert(ctx, files, p)
	case domain.PlagiarismParams:
		outcome, err = s.checkPlagiarism(ctx, files)
	case domain.ViewParams:
		outcome, err = s.view(ctx, files)
	case domain.ExtractTextParams:
		outcome, err = s.extractText(ctx, files)
	default:
		err = apperrors.NewInternalError(fmt.Sprintf("unhandled operation parameters %T", params), nil)
	}

	if err != nil {
		s.logger.Warn("Operation failed", "operation", string(kind), "error", err)
		return nil, err
	}
	s.logger.Info("Operation completed", "operation", string(kind), "duration_ms", time.Since(start).Milliseconds())
	return outcome, nil
}

// singlePDF returns the one upload the operation works on, after the magic
// sniff. Upload count is the handler's job; this is the service's backstop.
func singlePDF(files []domain.FileUpload) (*domain.FileUpload, error) {
	if len(files) != 1 {
		return nil, &domain.ValidationError{Message: "Exactly one file is required"}
	}
	if !files[0].IsPDF() {
		return nil, &domain.ValidationError{Message: "File must be a PDF"}
	}
	return &files[0], nil
}

func (s *pdfService) compress(ctx context.Context, files []domain.FileUpload, p domain.CompressParams) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}
	if p.Level < domain.CompressionLow || p.Level > domain.CompressionMaximum {
		return nil, domain.ErrInvalidCompressionLevel
	}

	data, err := s.toolkit.Optimize(ctx, f.Data, p.Level)
	if err != nil {
		return nil, apperrors.NewProcessingError("Error compressing PDF", err)
	}
	s.logger.Debug("Compressed PDF", "level", int(p.Level), "in_bytes", len(f.Data), "out_bytes", len(data))

	return documentOutcome(domain.OperationCompress, f.Name, "pdf", pdfContentType, data, false), nil
}

func (s *pdfService) merge(ctx context.Context, files []domain.FileUpload, p domain.MergeParams) (*domain.OperationOutcome, error) {
	if len(files) < 2 {
		return nil, &domain.ValidationError{Message: "At least two PDF files are required for merging"}
	}
	for _, f := range files {
		if !f.IsPDF() {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("File %s is not a PDF", f.Name)}
		}
	}

	ordered, err := orderUploads(files, p.Order)
	if err != nil {
		return nil, err
	}

	contents := make([][]byte, len(ordered))
	for i, f := range ordered {
		contents[i] = f.Data
	}
	data, err := s.toolkit.Merge(ctx, contents)
	if err != nil {
		return nil, apperrors.NewProcessingError("Error merging PDFs", err)
	}

	return documentOutcome(domain.OperationMerge, files[0].Name, "pdf", pdfContentType, data, false), nil
}

// orderUploads applies the optional merge_order permutation.
func orderUploads(files []domain.FileUpload, order []int) ([]domain.FileUpload, error) {
	if len(order) == 0 {
		return files, nil
	}
	if len(order) != len(files) {
		return nil, &domain.ValidationError{Message: "merge_order contains invalid indices"}
	}
	seen := make(map[int]bool, len(order))
	ordered := make([]domain.FileUpload, len(files))
	for i, idx := range order {
		if idx < 0 || idx >= len(files) || seen[idx] {
			return nil, &domain.ValidationError{Message: "merge_order contains invalid indices"}
		}
		seen[idx] = true
		ordered[i] = files[idx]
	}
	return ordered, nil
}

func (s *pdfService) view(ctx context.Context, files []domain.FileUpload) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}

	result := &domain.OperationResult{
		Filename:    domain.DerivedFilename(domain.OperationView, f.Name, "pdf", time.Now()),
		ContentType: pdfContentType,
		Data:        f.Data,
		Inline:      true,
	}
	if n, err := s.extractor.PageCount(f.Data); err != nil {
		s.logger.Warn("Could not count pages for view", "file", f.Name, "error", err)
	} else {
		result.PageCount = n
	}
	return &domain.OperationOutcome{Document: result}, nil
}

func (s *pdfService) extractText(ctx context.Context, files []domain.FileUpload) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(f.Data)
	if err != nil {
		return nil, apperrors.NewProcessingError("Error extracting text", err)
	}
	return &domain.OperationOutcome{
		Payload: domain.TextExtraction{PageCount: len(pages), Pages: pages},
	}, nil
}

// documentOutcome bundles operation output bytes into a named document.
func documentOutcome(kind domain.OperationKind, originalName, ext, contentType string, data []byte, inline bool) *domain.OperationOutcome {
	return &domain.OperationOutcome{
		Document: &domain.OperationResult{
			Filename:    domain.DerivedFilename(kind, originalName, ext, time.Now()),
			ContentType: contentType,
			Data:        data,
			Inline:      inline,
		},
	}
}
