package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/futig/pdfchat-backend/internal/config"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/logger"
	"github.com/futig/pdfchat-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "no file part in the request", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded file", err)
		return
	}

	req := &entity.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}

	ctxzap.Info(ctx, "uploading document",
		zap.String("filename", req.Filename),
		zap.Int("size", len(content)),
	)

	res, err := h.usecase.Upload(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toUploadResponse(res))
}

// List handles GET /pdf
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs, err := h.usecase.List(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dtos := make([]*entity.DocumentDTO, 0, len(docs))
	for _, d := range docs {
		dtos = append(dtos, toDocumentDTO(d))
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(dtos)))
	response.Success(w, &entity.ListDocumentsResponse{Documents: dtos})
}

// Get handles GET /pdf/{pdf_id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "GetDocument")

	doc, err := h.usecase.Get(ctx, pdfID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toDocumentDTO(doc))
}

// Delete handles DELETE /pdf/{pdf_id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "DeleteDocument")

	if err := h.usecase.Delete(ctx, pdfID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.MessageResponse{Message: "PDF deleted successfully."})
}

// Raw handles GET /pdf/{pdf_id}/raw
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "GetRawDocument")

	content, err := h.usecase.GetRaw(ctx, pdfID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.File(w, pdfContentType, "", content)
}

// Page handles GET /pdf/{pdf_id}/page/{page_num}
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "GetPage")

	pageNum, err := strconv.Atoi(chi.URLParam(r, "page_num"))
	if err != nil {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: page number", entity.ErrInvalidInput))
		return
	}

	content, err := h.usecase.GetPage(ctx, pdfID, pageNum)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.PageResponse{
		PDFID:   pdfID,
		PageNum: pageNum,
		Content: content,
	})
}

// Search handles GET /pdf/{pdf_id}/search?query=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "Search")

	query := r.URL.Query().Get("query")

	occurrences, err := h.usecase.Search(ctx, pdfID, query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.SearchResponse{
		PDFID:       pdfID,
		Query:       query,
		Occurrences: occurrences,
	})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "PDF not found", err)
	case errors.Is(err, entity.ErrNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "required parameter is missing", err)
	case errors.Is(err, entity.ErrInvalidInput):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file type or parameter, please upload a PDF", err)
	case errors.Is(err, entity.ErrExtraction):
		h.respondError(ctx, w, http.StatusInternalServerError, "could not process PDF file", err)
	case errors.Is(err, entity.ErrIndexing):
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to prepare PDF for chat", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
