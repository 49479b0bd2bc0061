package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/KirkDiggler/mindmeld/internal/api"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
)

const qrSize = 320

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out, err := s.gameService.CreateGame(r.Context(), &game.CreateGameInput{})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.CreateResponse{GameCode: out.GameCode})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.JoinRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.gameService.JoinGame(r.Context(), &game.JoinGameInput{
		GameCode:   normalizeCode(req.GameCode),
		PlayerName: req.Name,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.JoinResponse{PlayerID: out.PlayerID})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.PlayerRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.gameService.Ready(r.Context(), &game.ReadyInput{
		GameCode: normalizeCode(req.GameCode),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.AckResponse{OK: true, State: out.Phase.String()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.SubmitRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.gameService.SubmitAnswer(r.Context(), &game.SubmitAnswerInput{
		GameCode: normalizeCode(req.GameCode),
		PlayerID: req.PlayerID,
		Answer:   req.Answer,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.AckResponse{OK: true, State: out.Phase.String()})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.PlayerRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.gameService.NextRound(r.Context(), &game.NextRoundInput{
		GameCode: normalizeCode(req.GameCode),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &api.AckResponse{OK: true, State: out.Phase.String()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out, err := s.gameService.GetState(r.Context(), &game.GetStateInput{
		GameCode: normalizeCode(r.URL.Query().Get("game_code")),
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NewStateResponse(out.Session))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gameCode := normalizeCode(r.URL.Query().Get("game_code"))

	out, err := s.gameService.GetHistory(r.Context(), &game.GetHistoryInput{GameCode: gameCode})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NewHistoryResponse(gameCode, out.Rounds))
}

// handleQR renders a PNG QR code of the link players use to join
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gameCode := normalizeCode(r.URL.Query().Get("game_code"))

	// only hand out codes for games that exist
	if _, err := s.gameService.GetState(r.Context(), &game.GetStateInput{GameCode: gameCode}); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	png, err := qrcode.Encode(s.joinURL(r, gameCode), qrcode.Medium, qrSize)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, &api.VersionResponse{Name: "mindmeld", Version: s.config.Version})
}

func (s *Server) joinURL(r *http.Request, gameCode string) string {
	base := strings.TrimSuffix(s.config.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	return base + "/?game_code=" + url.QueryEscape(gameCode)
}

// normalizeCode drops stray whitespace. Codes are case-sensitive.
func normalizeCode(gameCode string) string {
	return strings.TrimSpace(gameCode)
}
