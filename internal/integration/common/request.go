package common

import (
	"context"

	pkgHTTP "github.com/futig/pdfchat-backend/pkg/http"
	"github.com/go-chi/chi/v5/middleware"
)

const requestIDHeader = "X-Request-Id"

// RequestOpts forwards the inbound request id so upstream logs can be correlated.
func RequestOpts(ctx context.Context) []pkgHTTP.RequestOpt {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return nil
	}
	return []pkgHTTP.RequestOpt{pkgHTTP.WithHeader(requestIDHeader, id)}
}
