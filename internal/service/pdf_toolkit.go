package service

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"pdf-manager/internal/domain"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFToolkit implements domain.PDFToolkit on top of pdfcpu. pdfcpu's API is
// file based, so every call runs inside a scratch workspace that is removed
// before the call returns.
type PDFToolkit struct {
	tempDir string
	logger  domain.Logger
}

// NewPDFToolkit creates a toolkit writing scratch files under tempDir.
func NewPDFToolkit(tempDir string, logger domain.Logger) *PDFToolkit {
	return &PDFToolkit{
		tempDir: tempDir,
		logger:  logger,
	}
}

func (t *PDFToolkit) workspace() (string, func(), error) {
	dir, err := os.MkdirTemp(t.tempDir, "pdfwork-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// optimizeConfiguration maps the public 1-4 level onto pdfcpu write options.
// The mapping is bijective: each level enables strictly more sharing than
// the one below it; level 4 additionally strips bookmarks in Optimize.
func optimizeConfiguration(level domain.CompressionLevel) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	switch level {
	case domain.CompressionLow:
		conf.WriteObjectStream = false
		conf.OptimizeDuplicateContentStreams = false
	case domain.CompressionMedium:
		conf.WriteObjectStream = true
		conf.OptimizeDuplicateContentStreams = false
	case domain.CompressionHigh, domain.CompressionMaximum:
		conf.WriteObjectStream = true
		conf.OptimizeDuplicateContentStreams = true
	}
	conf.WriteXRefStream = true
	return conf
}

// Optimize rewrites the document with the sharing options of the given
// level and returns the result.
func (t *PDFToolkit) Optimize(ctx context.Context, pdf []byte, level domain.CompressionLevel) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, cleanup, err := t.workspace()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	in := filepath.Join(dir, "input.pdf")
	out := filepath.Join(dir, "optimized.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}

	conf := optimizeConfiguration(level)
	if err := pdfapi.OptimizeFile(in, out, conf); err != nil {
		return nil, fmt.Errorf("optimize failed: %w", err)
	}

	if level == domain.CompressionMaximum {
		// Best effort: a document without bookmarks is already maximal.
		if err := pdfapi.RemoveBookmarksFile(out, out, conf); err != nil {
			t.logger.Debug("No bookmarks to strip", "error", err)
		}
	}

	return os.ReadFile(out)
}

// Merge concatenates the given documents in order.
func (t *PDFToolkit) Merge(ctx context.Context, pdfs [][]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, cleanup, err := t.workspace()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths := make([]string, len(pdfs))
	for i, pdf := range pdfs {
		paths[i] = filepath.Join(dir, fmt.Sprintf("input-%03d.pdf", i))
		if err := os.WriteFile(paths[i], pdf, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write scratch file: %w", err)
		}
	}

	out := filepath.Join(dir, "merged.pdf")
	if err := pdfapi.MergeCreateFile(paths, out, false, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	return os.ReadFile(out)
}

// PageCount returns the number of pages in the document.
func (t *PDFToolkit) PageCount(ctx context.Context, pdf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dir, cleanup, err := t.workspace()
	if err != nil {
		return 0, err
	}
	defer cleanup()

	in := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return 0, fmt.Errorf("failed to write scratch file: %w", err)
	}
	n, err := pdfapi.PageCountFile(in)
	if err != nil {
		return 0, fmt.Errorf("page count failed: %w", err)
	}
	return n, nil
}

// ApplyEdits stamps the parsed edit operations onto the document, one
// watermark pass per operation, each restricted to its page. Coordinates
// arrive top-based and are converted against the page height here.
func (t *PDFToolkit) ApplyEdits(ctx context.Context, pdf []byte, ops []domain.EditOperation) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, cleanup, err := t.workspace()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(doc, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}

	pageCount, err := pdfapi.PageCountFile(doc)
	if err != nil {
		return nil, fmt.Errorf("page count failed: %w", err)
	}
	dims, err := pdfapi.PageDimsFile(doc)
	if err != nil {
		return nil, fmt.Errorf("page dims failed: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	for i, op := range ops {
		if op.Page < 1 || op.Page > pageCount {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("Invalid page number: %d", op.Page)}
		}
		pageHeight := dims[op.Page-1].Height

		var wm *model.Watermark
		switch op.Type {
		case domain.EditOpText:
			wm, err = textStamp(op, pageHeight)
		case domain.EditOpHighlight:
			wm, err = highlightStamp(op, pageHeight)
		case domain.EditOpDelete:
			wm, err = t.deleteStamp(dir, i, op, pageHeight)
		default:
			return nil, &domain.ValidationError{Message: fmt.Sprintf("Invalid operation type: %s", op.Type)}
		}
		if err != nil {
			return nil, err
		}

		pages := []string{strconv.Itoa(op.Page)}
		if err := pdfapi.AddWatermarksFile(doc, "", pages, wm, conf); err != nil {
			return nil, fmt.Errorf("failed to apply %s operation: %w", op.Type, err)
		}
	}

	return os.ReadFile(doc)
}

// textStamp places op.Content at the operation position, offset from the
// page's bottom-left corner.
func textStamp(op domain.EditOperation, pageHeight float64) (*model.Watermark, error) {
	desc := fmt.Sprintf("fontname:Helvetica, points:%g, scale:1 abs, pos:bl, rot:0, op:1, fillc:%s",
		op.FontSize, normalizeHex(op.FontColor))
	wm, err := pdfcpu.ParseTextWatermarkDetails(op.Content, desc, true, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text stamp: %w", err)
	}
	wm.Dx = op.Position.X
	wm.Dy = pageHeight - op.Position.Y
	return wm, nil
}

// highlightStamp renders the target text in black over a colored background
// box, approximating a marker highlight. Without a position the stamp lands
// at the top-left reading margin.
func highlightStamp(op domain.EditOperation, pageHeight float64) (*model.Watermark, error) {
	x, yTop := 50.0, 50.0
	if op.Position != nil {
		x, yTop = op.Position.X, op.Position.Y
	}

	desc := fmt.Sprintf("fontname:Helvetica, points:%d, scale:1 abs, pos:bl, rot:0, op:%g, fillc:#000000, bgcol:%s",
		defaultFontPoints, *op.Opacity, normalizeHex(op.Color))
	wm, err := pdfcpu.ParseTextWatermarkDetails(op.Text, desc, true, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse highlight stamp: %w", err)
	}
	wm.Dx = x
	wm.Dy = pageHeight - yTop
	return wm, nil
}

const defaultFontPoints = 12

// deleteStamp covers the region with an opaque white image. At absolute
// scale one image pixel renders as one point, so the patch is generated at
// the region's dimensions.
func (t *PDFToolkit) deleteStamp(dir string, n int, op domain.EditOperation, pageHeight float64) (*model.Watermark, error) {
	w := int(math.Ceil(op.Region.Width))
	h := int(math.Ceil(op.Region.Height))
	if w < 1 || h < 1 {
		return nil, &domain.ValidationError{Message: "Delete operation region must have positive width and height"}
	}

	patch := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(patch, patch.Bounds(), image.White, image.Point{}, draw.Src)

	path := filepath.Join(dir, fmt.Sprintf("patch-%03d.png", n))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create patch image: %w", err)
	}
	if err := png.Encode(f, patch); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to encode patch image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	wm, err := pdfcpu.ParseImageWatermarkDetails(path, "scale:1 abs, pos:bl, rot:0, op:1", true, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse image stamp: %w", err)
	}
	wm.Dx = op.Region.X
	wm.Dy = pageHeight - op.Region.Y - op.Region.Height
	return wm, nil
}

// ImagesToPDF builds a PDF with one page per image. Inputs must already be
// encoded in a format pdfcpu imports (JPEG here).
func (t *PDFToolkit) ImagesToPDF(ctx context.Context, images [][]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, cleanup, err := t.workspace()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = filepath.Join(dir, fmt.Sprintf("img-%03d.jpg", i))
		if err := os.WriteFile(paths[i], img, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write scratch image: %w", err)
		}
	}

	out := filepath.Join(dir, "imported.pdf")
	if err := pdfapi.ImportImagesFile(paths, out, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("image import failed: %w", err)
	}
	return os.ReadFile(out)
}

// normalizeHex returns a #rrggbb string for any accepted color value,
// falling back to black exactly like the edit pipeline's color parsing.
func normalizeHex(s string) string {
	r, g, b := domain.ParseHexColor(s)
	return fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255))
}
