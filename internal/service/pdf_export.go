package service

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"image/jpeg"
	"image/png"
	"strings"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"

	"github.com/xuri/excelize/v2"
)

const jpegQuality = 95

const htmlExportShell = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>PDF Export</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; }
        p { margin-bottom: 16px; }
    </style>
</head>
<body>
%s
</body>
</html>
`

// export converts the PDF's content into the requested format.
func (s *pdfService) export(ctx context.Context, files []domain.FileUpload, p domain.ExportParams) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}

	spec, ok := domain.ExportFormat(p.Format)
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf(
			"Unsupported format: %s. Supported formats are: %s",
			p.Format, strings.Join(domain.SupportedExportFormats(), ", "))}
	}

	var data []byte
	switch spec.Ext {
	case "txt":
		text, err := s.extractPlainText(f.Data)
		if err != nil {
			return nil, err
		}
		data = []byte(text)
	case "html":
		text, err := s.extractPlainText(f.Data)
		if err != nil {
			return nil, err
		}
		body := strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
		data = []byte(fmt.Sprintf(htmlExportShell, body))
	case "xlsx":
		text, err := s.extractPlainText(f.Data)
		if err != nil {
			return nil, err
		}
		data, err = xlsxFromLines(splitContentLines(text))
		if err != nil {
			return nil, apperrors.NewProcessingError("Error exporting PDF", err)
		}
	case "png", "jpg", "jpeg":
		var err error
		data, err = s.exportFirstPageImage(f.Data, spec.Ext)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewInternalError(fmt.Sprintf("export format %s has no writer", spec.Ext), nil)
	}

	return documentOutcome(domain.OperationExport, f.Name, spec.Ext, spec.MIME, data, false), nil
}

// extractPlainText joins page texts with one newline per page. A document
// with no text layer cannot be exported to a textual format.
func (s *pdfService) extractPlainText(pdf []byte) (string, error) {
	pages, err := s.extractor.ExtractPages(pdf)
	if err != nil {
		return "", apperrors.NewProcessingError("Error extracting text", err)
	}

	var b strings.Builder
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		b.WriteString(page.Text)
		b.WriteByte('\n')
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", apperrors.NewProcessingError("No text could be extracted", nil)
	}
	return b.String(), nil
}

// splitContentLines splits extracted text for row-wise output, dropping the
// trailing empty line the page separator leaves behind.
func splitContentLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// xlsxFromLines builds a one-column workbook: header "Content", one row per
// line.
func xlsxFromLines(lines []string) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if err := wb.SetCellValue(sheet, "A1", "Content"); err != nil {
		return nil, err
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := wb.SetCellValue(sheet, cell, line); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportFirstPageImage rasterizes page one and encodes it as PNG or JPEG.
func (s *pdfService) exportFirstPageImage(pdf []byte, ext string) ([]byte, error) {
	img, err := s.extractor.RenderPage(pdf, 1)
	if err != nil {
		return nil, apperrors.NewProcessingError("Error exporting PDF", err)
	}

	var buf bytes.Buffer
	switch ext {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, apperrors.NewProcessingError("Error exporting PDF", err)
	}
	return buf.Bytes(), nil
}
