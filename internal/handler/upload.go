package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

// UploadHandler receives spreadsheet exports for bulk import.
type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
	logger        *slog.Logger
}

// NewUploadHandler creates a new UploadHandler. maxBytes <= 0 uses
// domain.DefaultUploadMaxSize.
func NewUploadHandler(uploadService service.UploadService, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultUploadMaxSize
	}
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// RegisterRoutes registers the upload route.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/upload-relatorio", requireUser(http.HandlerFunc(h.Upload)))
}

// Upload imports the workbook sent in the "relatorio" multipart field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "UploadHandler.Upload"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, r, h.logger, domain.TooLarge(op, "Arquivo excede o tamanho máximo de 10MB"))
			return
		}
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Formulário inválido"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(domain.UploadFormField)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Nenhum arquivo enviado"))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		ErrorResponse(w, r, h.logger, domain.TooLarge(op, "Arquivo excede o tamanho máximo de 10MB"))
		return
	}

	result, err := h.uploadService.Import(r.Context(), service.UploadParams{
		Filename:   header.Filename,
		Body:       file,
		UploadedBy: user.ID,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
