package domain

import "strings"

// FormatCategory groups convertible formats by the tool that handles them.
type FormatCategory string

const (
	FormatCategoryOffice FormatCategory = "office"
	FormatCategoryImage  FormatCategory = "image"
	FormatCategoryText   FormatCategory = "text"
)

// FormatSpec describes one file format the export and convert operations
// know about. Export marks PDF-to-format targets, ConvertSource marks
// format-to-PDF inputs; the two operations share this table.
type FormatSpec struct {
	Ext           string
	MIME          string
	Category      FormatCategory
	Export        bool
	ConvertSource bool
}

var formatTable = []FormatSpec{
	{Ext: "xlsx", MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Category: FormatCategoryOffice, Export: true, ConvertSource: true},
	{Ext: "xls", MIME: "application/vnd.ms-excel", Category: FormatCategoryOffice, ConvertSource: true},
	{Ext: "docx", MIME: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Category: FormatCategoryOffice, ConvertSource: true},
	{Ext: "doc", MIME: "application/msword", Category: FormatCategoryOffice, ConvertSource: true},
	{Ext: "pptx", MIME: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Category: FormatCategoryOffice, ConvertSource: true},
	{Ext: "ppt", MIME: "application/vnd.ms-powerpoint", Category: FormatCategoryOffice, ConvertSource: true},
	{Ext: "html", MIME: "text/html", Category: FormatCategoryText, Export: true, ConvertSource: true},
	{Ext: "htm", MIME: "text/html", Category: FormatCategoryText, ConvertSource: true},
	{Ext: "txt", MIME: "text/plain", Category: FormatCategoryText, Export: true, ConvertSource: true},
	{Ext: "jpg", MIME: "image/jpeg", Category: FormatCategoryImage, Export: true, ConvertSource: true},
	{Ext: "jpeg", MIME: "image/jpeg", Category: FormatCategoryImage, Export: true, ConvertSource: true},
	{Ext: "png", MIME: "image/png", Category: FormatCategoryImage, Export: true, ConvertSource: true},
	{Ext: "tiff", MIME: "image/tiff", Category: FormatCategoryImage, ConvertSource: true},
}

// ExportFormat looks up a PDF export target format.
func ExportFormat(ext string) (FormatSpec, bool) {
	return lookupFormat(ext, func(f FormatSpec) bool { return f.Export })
}

// ConvertFormat looks up a to-PDF conversion source format.
func ConvertFormat(ext string) (FormatSpec, bool) {
	return lookupFormat(ext, func(f FormatSpec) bool { return f.ConvertSource })
}

func lookupFormat(ext string, match func(FormatSpec) bool) (FormatSpec, bool) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	for _, f := range formatTable {
		if f.Ext == ext && match(f) {
			return f, true
		}
	}
	return FormatSpec{}, false
}

// SupportedExportFormats lists export targets in the order the API
// documents them, for error messages.
func SupportedExportFormats() []string {
	return []string{"xlsx", "txt", "html", "png", "jpg", "jpeg"}
}

// SupportedConvertFormats lists conversion sources in the order the API
// documents them, dotted, for error messages.
func SupportedConvertFormats() []string {
	order := []string{"docx", "doc", "xlsx", "xls", "pptx", "ppt", "html", "htm", "txt", "jpg", "jpeg", "png", "tiff"}
	out := make([]string, 0, len(order))
	for _, ext := range order {
		out = append(out, "."+ext)
	}
	return out
}
