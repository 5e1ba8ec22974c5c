package service

import (
	"context"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"
)

// edit applies the parsed operations in order and returns the stamped
// document. Preview runs the identical pipeline; only the result's name and
// disposition differ, and nothing is retained either way.
func (s *pdfService) edit(ctx context.Context, files []domain.FileUpload, p domain.EditParams) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}
	if len(p.Operations) == 0 {
		return nil, &domain.ValidationError{Message: "No valid operations provided"}
	}

	data, err := s.toolkit.ApplyEdits(ctx, f.Data, p.Operations)
	if err != nil {
		if _, ok := err.(*domain.ValidationError); ok {
			return nil, err
		}
		if p.Preview {
			return nil, apperrors.NewProcessingError("Error generating preview", err)
		}
		return nil, apperrors.NewProcessingError("Error editing PDF", err)
	}
	s.logger.Debug("Applied edit operations", "operations", len(p.Operations), "preview", p.Preview)

	return documentOutcome(p.Kind(), f.Name, "pdf", pdfContentType, data, p.Preview), nil
}
