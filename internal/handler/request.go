package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.TooLarge(op, "Corpo da requisição muito grande")
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "Corpo da requisição vazio")
		default:
			return domain.Invalid(op, "JSON inválido")
		}
	}
	return nil
}

// queryInt parses a non-negative integer query parameter. Missing or
// malformed values yield 0 so the service applies its default.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// pathInt64 parses a numeric path value.
func pathInt64(r *http.Request, op, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(op, "ID inválido")
	}
	return id, nil
}
