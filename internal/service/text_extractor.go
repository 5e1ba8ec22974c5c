package service

import (
	"fmt"
	"image"
	"strings"
	"time"

	"pdf-manager/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// TextExtractor reads text and page renderings out of PDF documents.
type TextExtractor struct {
	logger domain.Logger
}

// NewTextExtractor creates a new text extractor.
func NewTextExtractor(logger domain.Logger) *TextExtractor {
	return &TextExtractor{
		logger: logger,
	}
}

// maxPageExtraction bounds a single page's text extraction. MuPDF can stall
// on damaged content streams; a stuck page becomes an empty page instead of
// a stuck request.
const maxPageExtraction = 90 * time.Second

// ExtractPages returns the text of every page, 1-indexed, in order. Pages
// that fail or time out are returned empty so the page numbering of the
// result always matches the document.
func (e *TextExtractor) ExtractPages(pdf []byte) ([]domain.PageText, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]domain.PageText, 0, numPages)

	type pageResult struct {
		text string
		err  error
	}

	for pageNum := 0; pageNum < numPages; pageNum++ {
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var text string
		select {
		case res := <-resultCh:
			if res.err != nil {
				e.logger.Warn("Failed to extract text from page", "page", pageNum+1, "total", numPages, "error", res.err)
			}
			text = res.text
		case <-time.After(maxPageExtraction):
			e.logger.Warn("Page extraction timeout; using empty page", "page", pageNum+1, "total", numPages, "timeout_sec", int(maxPageExtraction.Seconds()))
			go func() { <-resultCh }() // drain so goroutine can exit
		}

		pages = append(pages, domain.PageText{
			Page: pageNum + 1,
			Text: sanitizeText(strings.TrimSpace(text)),
		})
	}

	return pages, nil
}

// RenderPage rasterizes one page, 1-indexed.
func (e *TextExtractor) RenderPage(pdf []byte, page int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Invalid page number: %d", page)}
	}

	img, err := doc.Image(page - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	return img, nil
}

// PageCount returns the number of pages in the document.
func (e *TextExtractor) PageCount(pdf []byte) (int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// sanitizeText drops NUL bytes, stray control characters, and surrogate
// halves so extracted text always survives JSON encoding.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r <= 0x10FFFF:
			if r < 0xD800 || r > 0xDFFF {
				result.WriteRune(r)
			}
		}
	}

	return result.String()
}
