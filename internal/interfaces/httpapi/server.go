package httpapi

import (
	"net/http"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

// NewRouter mounts every route and wraps the mux, outermost first, in
// tracing, access logging, CORS and panic recovery.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string, adminToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerBracketRoutes(mux, handler, adminToken)
	registerLineupRoutes(mux, handler)
	registerPredictionRoutes(mux, handler)
	registerReferenceRoutes(mux, handler)
	registerAdminRoutes(mux, handler, adminToken)

	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = CORS(corsAllowedOrigins, h)
	h = RequestLogging(logger, h)
	return RequestTracing(h)
}
