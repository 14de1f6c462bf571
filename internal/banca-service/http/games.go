package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromGames(s.games.List()))
}

func (s *Server) listActiveGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromGames(s.games.ListActive()))
}

func gameFromRequest(req dto.GameRequest) (repo.Game, error) {
	tipo, err := gametype.Parse(req.Tipo)
	if err != nil {
		return repo.Game{}, err
	}
	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	return repo.Game{
		Nome:              req.Nome,
		Tipo:              tipo,
		ValorMinimo:       req.ValorMinimo,
		ValorMaximo:       req.ValorMaximo,
		Multiplicador:     req.Multiplicador,
		HorarioAbertura:   req.HorarioAbertura,
		HorarioFechamento: req.HorarioFechamento,
		Ativo:             ativo,
	}, nil
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req dto.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	if req.Nome == "" {
		writeError(w, http.StatusBadRequest, "nome é obrigatório")
		return
	}
	g, err := gameFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.games.Create(r.Context(), g)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromGame(created))
}

func (s *Server) updateGame(w http.ResponseWriter, r *http.Request) {
	var req dto.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	g, err := gameFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.ID = chi.URLParam(r, "id")

	if err := s.games.Update(r.Context(), g); err != nil {
		writeDomainError(w, err)
		return
	}
	// update de jogo inexistente é ignorado sem erro; a resposta reflete
	// o estado corrente da visão
	if cur, ok := s.games.Get(g.ID); ok {
		writeJSON(w, http.StatusOK, dto.FromGame(cur))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.games.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.ToggleActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromGame(g))
}
