package domain

import (
	"bytes"
	"path/filepath"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// FileUpload is one uploaded file, fully read into memory. Every operation
// works on explicit uploads; nothing is kept between requests.
type FileUpload struct {
	Name string
	Data []byte
}

// IsPDF reports whether the upload starts with the PDF header.
func (f FileUpload) IsPDF() bool {
	return bytes.HasPrefix(f.Data, pdfMagic)
}

// Ext returns the lowercased filename extension without the dot.
func (f FileUpload) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// SniffPDF reports whether data starts with the PDF header.
func SniffPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// PageText is the text layer of a single page.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// TextExtraction is the full text layer of a document.
type TextExtraction struct {
	PageCount int        `json:"page_count"`
	Pages     []PageText `json:"pages"`
}

// Lines flattens the extraction into trimmed, non-empty lines in page order.
func (t TextExtraction) Lines() []string {
	var lines []string
	for _, p := range t.Pages {
		for _, line := range strings.Split(p.Text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
