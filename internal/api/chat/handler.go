package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/logger"
	"github.com/futig/pdfchat-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxChatBodySize bounds the JSON body of a chat request
const maxChatBodySize = 1 << 20

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodySize)).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx = logger.WithDocument(ctx, req.PDFID)
	ctxzap.Info(ctx, "answering question", zap.Int("query_length", len(req.Query)))

	answer, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.ChatResponse{
		PDFID:  req.PDFID,
		Query:  req.Query,
		Answer: answer,
	})
}

// History handles GET /pdf/{pdf_id}/history?format=json|markdown|docx|pdf
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "GetHistory")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatJSON)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: format must be one of: json, markdown, docx, pdf", entity.ErrInvalidFormat))
		return
	}

	if format == entity.FormatJSON {
		turns, err := h.usecase.History(ctx, pdfID)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}

		response.Success(w, &entity.HistoryResponse{PDFID: pdfID, Turns: turns})
		return
	}

	file, err := h.usecase.ExportHistory(ctx, pdfID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "history exported", zap.String("format", formatParam), zap.Int("size", len(file.Data)))
	response.File(w, file.ContentType, file.Filename, file.Data)
}

// ClearHistory handles DELETE /pdf/{pdf_id}/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	pdfID := chi.URLParam(r, "pdf_id")
	ctx := logger.WithAction(logger.WithDocument(r.Context(), pdfID), "ClearHistory")

	if err := h.usecase.ClearHistory(ctx, pdfID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.MessageResponse{Message: "Chat history cleared."})
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
	case errors.Is(err, entity.ErrChatDisabled):
		h.respondError(ctx, w, http.StatusNotFound, "PDF not found or not processed for chat", err)
	case errors.Is(err, entity.ErrNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "PDF not found", err)
	case errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter", err)
	case errors.Is(err, entity.ErrInvalidInput):
		h.respondError(ctx, w, http.StatusBadRequest, "missing pdf_id or query", err)
	case errors.Is(err, entity.ErrAnswer):
		h.respondError(ctx, w, http.StatusInternalServerError, "an internal error occurred while processing the chat request", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
