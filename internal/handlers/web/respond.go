package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/KirkDiggler/mindmeld/internal/api"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
)

var errMalformedBody = errors.New("request body must be a JSON object")

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeFailure answers a rejected action. Game errors go back with status
// 200 and their kind; anything else is a 500 with a generic message.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := game.KindOf(err)
	if kind == game.KindInternal {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, api.Failure{Error: "internal error"})
		return
	}

	s.logger.Debug().Err(err).Str("path", r.URL.Path).Str("kind", string(kind)).Msg("action rejected")
	writeJSON(w, http.StatusOK, api.Failure{Error: err.Error(), Kind: string(kind)})
}

// decode reads a JSON body into v. Malformed bodies are answered here and
// decode reports false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("malformed body")
		writeJSON(w, http.StatusOK, api.Failure{Error: errMalformedBody.Error(), Kind: api.KindValidation})
		return false
	}
	return true
}
