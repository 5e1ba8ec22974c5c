package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// OperationKind identifies one PDF operation exposed by the API.
type OperationKind string

const (
	OperationCompress    OperationKind = "compress"
	OperationMerge       OperationKind = "merge"
	OperationEdit        OperationKind = "edit"
	OperationPreview     OperationKind = "preview"
	OperationExport      OperationKind = "export"
	OperationConvert     OperationKind = "convert"
	OperationPlagiarism  OperationKind = "plagiarism-check"
	OperationView        OperationKind = "view"
	OperationExtractText OperationKind = "extract-text"
)

// OperationParams is the closed set of per-operation parameter records.
// Handlers parse form data into one of these before the service layer runs;
// the service dispatches on the concrete type.
type OperationParams interface {
	Kind() OperationKind
}

// CompressionLevel is the public 1-4 compression scale.
type CompressionLevel int

const (
	CompressionLow     CompressionLevel = 1
	CompressionMedium  CompressionLevel = 2
	CompressionHigh    CompressionLevel = 3
	CompressionMaximum CompressionLevel = 4
)

// ErrInvalidCompressionLevel is returned for level values outside 1-4.
var ErrInvalidCompressionLevel = &ValidationError{
	Message: "Invalid compression level. Must be between 1 (low) and 4 (maximum)",
}

// ParseCompressionLevel parses the compression_level form value.
// An empty value defaults to the medium level.
func ParseCompressionLevel(value string) (CompressionLevel, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CompressionMedium, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrInvalidCompressionLevel
	}
	level := CompressionLevel(n)
	if level < CompressionLow || level > CompressionMaximum {
		return 0, ErrInvalidCompressionLevel
	}
	return level, nil
}

// CompressParams carries the parameters for a compress operation.
type CompressParams struct {
	Level CompressionLevel
}

func (CompressParams) Kind() OperationKind { return OperationCompress }

// MergeParams carries the parameters for a merge operation. Order is the
// optional merge_order index list; empty means upload order.
type MergeParams struct {
	Order []int
}

func (MergeParams) Kind() OperationKind { return OperationMerge }

// EditParams carries the parsed edit operation list. Preview selects the
// non-persistent preview rendition of the same pipeline.
type EditParams struct {
	Operations []EditOperation
	Preview    bool
}

func (p EditParams) Kind() OperationKind {
	if p.Preview {
		return OperationPreview
	}
	return OperationEdit
}

// ExportParams carries the target format for a PDF export.
type ExportParams struct {
	Format string
}

func (ExportParams) Kind() OperationKind { return OperationExport }

// ConvertParams carries the source format for a to-PDF conversion.
type ConvertParams struct {
	Format string
}

func (ConvertParams) Kind() OperationKind { return OperationConvert }

// ViewParams requests the uploaded PDF streamed back for inline display.
type ViewParams struct{}

func (ViewParams) Kind() OperationKind { return OperationView }

// PlagiarismParams requests a plagiarism report for the uploaded PDF.
type PlagiarismParams struct{}

func (PlagiarismParams) Kind() OperationKind { return OperationPlagiarism }

// ExtractTextParams requests the text layer of the uploaded PDF.
type ExtractTextParams struct{}

func (ExtractTextParams) Kind() OperationKind { return OperationExtractText }

// OperationResult is a derived document returned by an operation.
type OperationResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Inline      bool
	PageCount   int
}

// OperationOutcome is the single result of one operation request: either a
// binary document or a JSON payload, never both.
type OperationOutcome struct {
	Document *OperationResult
	Payload  interface{}
}

// filenamePrefixes maps each document-producing operation to its output
// filename prefix.
var filenamePrefixes = map[OperationKind]string{
	OperationCompress: "compresspdf",
	OperationMerge:    "mergepdf",
	OperationEdit:     "editpdf",
	OperationPreview:  "previewpdf",
	OperationExport:   "exportpdf",
	OperationConvert:  "convertpdf",
	OperationView:     "viewpdf",
}

// DerivedFilename builds the output filename for an operation result:
// <prefix>_<base>_<YYYYMMDD_HHMMSS>.<ext>. The base is the upload's name
// stripped of its extension with anything outside [A-Za-z0-9_-] removed.
func DerivedFilename(kind OperationKind, originalName, ext string, at time.Time) string {
	prefix, ok := filenamePrefixes[kind]
	if !ok {
		prefix = string(kind)
	}

	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	var b strings.Builder
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	base = b.String()
	if base == "" {
		base = "document"
	}

	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return fmt.Sprintf("%s_%s_%s.%s", prefix, base, at.Format("20060102_150405"), ext)
}
