package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
)

func (s *Server) listBlocked(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, dto.FromBlocked(s.blocked.ByGame(gameID)))
}

func (s *Server) addBlocked(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	b, err := s.blocked.Add(r.Context(), chi.URLParam(r, "id"), req.Numero)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.BlockedNumberResponse{ID: b.ID, GameID: b.GameID, Numero: b.Numero})
}

func (s *Server) removeBlocked(w http.ResponseWriter, r *http.Request) {
	if err := s.blocked.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
