package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/crackthecode/internal/api/apierr"
	basemw "github.com/mcoot/crackthecode/internal/middleware"
)

// Recovery answers panics with a JSON INTERNAL_ERROR carrying the request ID
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return basemw.Recovery(logger, writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	var details any
	if id := w.Header().Get(basemw.RequestIDHeader); id != "" {
		details = map[string]string{"requestId": id}
	}
	apierr.WriteError(w, apierr.NewInternalErrorWithDetails(details))
}
