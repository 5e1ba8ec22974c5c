package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"

	"golang.org/x/image/tiff"
)

// convert turns a non-PDF upload into a PDF. Images go through an in-process
// decode/flatten/import pipeline; office and text documents go to the
// external converter.
func (s *pdfService) convert(ctx context.Context, files []domain.FileUpload, p domain.ConvertParams) (*domain.OperationOutcome, error) {
	if len(files) != 1 {
		return nil, &domain.ValidationError{Message: "Exactly one file is required"}
	}
	f := files[0]

	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p.Format), "."))
	if format == "" {
		format = f.Ext()
	}
	if format == "pdf" || f.IsPDF() {
		return nil, &domain.ValidationError{Message: "File is already a PDF"}
	}

	spec, ok := domain.ConvertFormat(format)
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf(
			"Unsupported file format: .%s. Supported formats are: %s",
			format, strings.Join(domain.SupportedConvertFormats(), ", "))}
	}

	var (
		data []byte
		err  error
	)
	if spec.Category == domain.FormatCategoryImage {
		data, err = s.imageToPDF(ctx, f.Data, spec.Ext)
	} else {
		// The external tool picks its input filter from the extension, so
		// make sure the scratch name carries the resolved one.
		sourceName := f.Name
		if !strings.EqualFold(strings.TrimPrefix(filepath.Ext(sourceName), "."), spec.Ext) {
			sourceName = "upload." + spec.Ext
		}
		data, err = s.converter.ToPDF(ctx, sourceName, f.Data)
	}
	if err != nil {
		return nil, apperrors.NewProcessingError("Error converting file to PDF", err)
	}

	return documentOutcome(domain.OperationConvert, f.Name, "pdf", pdfContentType, data, false), nil
}

// imageToPDF decodes the upload, flattens any transparency onto white, and
// imports the result as a single-page PDF.
func (s *pdfService) imageToPDF(ctx context.Context, data []byte, ext string) ([]byte, error) {
	img, err := decodeImage(data, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", ext, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return s.toolkit.ImagesToPDF(ctx, [][]byte{buf.Bytes()})
}

func decodeImage(data []byte, ext string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch ext {
	case "png":
		return png.Decode(r)
	case "jpg", "jpeg":
		return jpeg.Decode(r)
	case "tiff":
		return tiff.Decode(r)
	default:
		return nil, fmt.Errorf("no decoder for %s", ext)
	}
}

// flattenOnWhite composites the image over an opaque white background. JPEG
// has no alpha channel, so transparent regions must be resolved first.
func flattenOnWhite(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.White, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
