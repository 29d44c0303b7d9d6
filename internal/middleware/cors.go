package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// NewCORS builds the CORS handler for the browser origins allowed to call
// the API. "*" allows any origin. Entries are trimmed of spaces and a
// trailing slash so values copied from a browser address bar match.
func NewCORS(origins []string) *cors.Cors {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         600,
	})
}
