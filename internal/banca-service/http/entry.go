package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/entry"
	"github.com/sorteweb/banca-platform/internal/banca-service/receipt"
)

func (s *Server) session(r *http.Request) *entry.Session {
	claims := claimsFrom(r)
	return s.entries.Session(claims.Subject, claims.Nome)
}

func (s *Server) entryState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	res := dto.EntryStateResponse{
		State:   string(sess.State()),
		Entries: sess.Entries(),
		Total:   sess.Total(),
	}
	if g, ok := sess.Game(); ok {
		gr := dto.FromGame(g)
		res.Game = &gr
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) entrySelectGame(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	g, ok := s.games.Get(req.GameID)
	if !ok {
		writeError(w, http.StatusNotFound, "jogo não encontrado")
		return
	}
	if err := s.session(r).SelectGame(g); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromGame(g))
}

func (s *Server) entryApostador(w http.ResponseWriter, r *http.Request) {
	var req dto.ApostadorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	s.session(r).SetApostador(req.Nome, req.Telefone)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) entryAddNumber(w http.ResponseWriter, r *http.Request) {
	var req dto.AddNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	e, err := s.session(r).Add(r.Context(), req.Numero, req.Valor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) entryAddRandom(w http.ResponseWriter, r *http.Request) {
	var req dto.AddRandomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	e, err := s.session(r).AddRandom(r.Context(), req.Valor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) entrySetStake(w http.ResponseWriter, r *http.Request) {
	var req dto.SetStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	if err := s.session(r).SetStake(chi.URLParam(r, "id"), req.Valor); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) entryRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.session(r).Remove(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) entryClear(w http.ResponseWriter, r *http.Request) {
	s.session(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// entrySubmit grava o lote e devolve as apostas com o comprovante.
// Em escrita parcial as apostas já gravadas são devolvidas junto do erro
// para o vendedor decidir o que refazer.
func (s *Server) entrySubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	game, hasGame := sess.Game()

	bets, err := sess.Submit(r.Context(), s.ledger)
	if err != nil {
		if len(bets) > 0 {
			s.log.Error("envio de lote interrompido com escrita parcial",
				zap.Int("gravadas", len(bets)), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, struct {
				Error string            `json:"error"`
				Bets  []dto.BetResponse `json:"bets"`
			}{Error: err.Error(), Bets: dto.FromBets(bets)})
			return
		}
		writeDomainError(w, err)
		return
	}

	var gamePtr = &game
	if !hasGame {
		gamePtr = nil
	}
	rec, err := receipt.Build(bets, gamePtr)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubmitResponse{
		Bets:    dto.FromBets(bets),
		Receipt: dto.FromReceipt(rec),
	})
}
