package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"pdf-manager/internal/domain"
)

// PDFHandler handles the PDF operation endpoints. Each endpoint reads its
// uploads, parses the form parameters into a typed operation record, and
// hands off to the PDF service.
type PDFHandler struct {
	pdfService     domain.PDFService
	logger         domain.Logger
	maxUploadBytes int64
}

// NewPDFHandler creates a new PDF handler
func NewPDFHandler(pdfService domain.PDFService, maxUploadBytes int64, logger domain.Logger) *PDFHandler {
	return &PDFHandler{
		pdfService:     pdfService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// View streams the uploaded PDF back for inline display
func (h *PDFHandler) View(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.ViewParams{})
}

// Compress reduces the size of the uploaded PDF
func (h *PDFHandler) Compress(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	level, err := domain.ParseCompressionLevel(r.FormValue("compression_level"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.CompressParams{Level: level})
}

// Merge combines the uploaded PDFs into a single document
func (h *PDFHandler) Merge(w http.ResponseWriter, r *http.Request) {
	files, ok := h.readUploads(w, r)
	if !ok {
		return
	}

	order, err := parseMergeOrder(r.FormValue("merge_order"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.run(w, r, files, domain.MergeParams{Order: order})
}

// Edit applies edit operations to the uploaded PDF
func (h *PDFHandler) Edit(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, false)
}

// Preview applies edit operations and returns the result for inline display
func (h *PDFHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, true)
}

func (h *PDFHandler) edit(w http.ResponseWriter, r *http.Request, preview bool) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	ops, err := domain.ParseEditOperations([]byte(r.FormValue("operations")))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.EditParams{Operations: ops, Preview: preview})
}

// Export converts the uploaded PDF to another format
func (h *PDFHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	format := r.FormValue("format")
	if strings.TrimSpace(format) == "" {
		writeError(w, http.StatusBadRequest, "Format is required")
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.ExportParams{Format: format})
}

// Convert converts an uploaded document or image to PDF
func (h *PDFHandler) Convert(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.ConvertParams{Format: r.FormValue("format")})
}

// ExtractText returns the text layer of the uploaded PDF as JSON
func (h *PDFHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.ExtractTextParams{})
}

// CheckPlagiarism compares the uploaded PDF against the known sources
func (h *PDFHandler) CheckPlagiarism(w http.ResponseWriter, r *http.Request) {
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	h.run(w, r, []domain.FileUpload{file}, domain.PlagiarismParams{})
}

// run executes one operation and writes its outcome.
func (h *PDFHandler) run(w http.ResponseWriter, r *http.Request, files []domain.FileUpload, params domain.OperationParams) {
	outcome, err := h.pdfService.Run(r.Context(), files, params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if outcome.Document != nil {
		writeDocument(w, outcome.Document)
		return
	}
	writeJSON(w, http.StatusOK, outcome.Payload)
}

// readUpload reads the single "file" upload, enforcing the size cap and
// sanitizing the client-supplied filename.
func (h *PDFHandler) readUpload(w http.ResponseWriter, r *http.Request) (domain.FileUpload, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return domain.FileUpload{}, false
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
		return domain.FileUpload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.logger.Error("Failed to read upload", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return domain.FileUpload{}, false
	}
	if int64(len(data)) > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
		return domain.FileUpload{}, false
	}

	return domain.FileUpload{Name: sanitizeFilename(header.Filename), Data: data}, true
}

// readUploads reads every "file" part of the multipart form, in upload order.
func (h *PDFHandler) readUploads(w http.ResponseWriter, r *http.Request) ([]domain.FileUpload, bool) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		writeError(w, http.StatusBadRequest, "File is required")
		return nil, false
	}

	headers := r.MultipartForm.File["file"]
	files := make([]domain.FileUpload, 0, len(headers))
	for _, header := range headers {
		if header.Size > h.maxUploadBytes {
			writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
			return nil, false
		}

		part, err := header.Open()
		if err != nil {
			h.logger.Error("Failed to open upload", err, "filename", header.Filename)
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return nil, false
		}
		data, err := io.ReadAll(io.LimitReader(part, h.maxUploadBytes+1))
		part.Close()
		if err != nil {
			h.logger.Error("Failed to read upload", err, "filename", header.Filename)
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return nil, false
		}
		if int64(len(data)) > h.maxUploadBytes {
			writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
			return nil, false
		}

		files = append(files, domain.FileUpload{Name: sanitizeFilename(header.Filename), Data: data})
	}
	return files, true
}

func (h *PDFHandler) sizeLimitMessage() string {
	return fmt.Sprintf("File too large. Maximum upload size is %dMB", h.maxUploadBytes/(1<<20))
}

// parseMergeOrder parses the optional merge_order form field. Index range
// checks against the upload count happen in the service.
func parseMergeOrder(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var probe interface{}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, &domain.ValidationError{Message: "Invalid merge_order format"}
	}
	if _, ok := probe.([]interface{}); !ok {
		return nil, &domain.ValidationError{Message: "merge_order must be a list"}
	}

	order := []int{}
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, &domain.ValidationError{Message: "merge_order contains invalid indices"}
	}
	return order, nil
}

// sanitizeFilename strips any client-supplied path components.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}
