package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/pdfchat-backend/internal/api/chat"
	"github.com/futig/pdfchat-backend/internal/api/docs"
	documentapi "github.com/futig/pdfchat-backend/internal/api/document"
	"github.com/futig/pdfchat-backend/internal/api/middleware"
	"github.com/futig/pdfchat-backend/internal/entity"
	"github.com/futig/pdfchat-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout covers an upload with embedding and a chat turn with the LLM call
const requestTimeout = 5 * time.Minute

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	documentHandler *documentapi.Handler,
	chatHandler *chatapi.Handler,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS(allowedOrigins))       // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Default timeout

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, &entity.MessageResponse{Message: "Welcome to the PDF Chat App!"})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	documentapi.RegisterRoutes(r, documentHandler)
	chatapi.RegisterRoutes(r, chatHandler)

	return r
}
