package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}
	if req.Usuario == "" || req.Senha == "" {
		writeError(w, http.StatusBadRequest, "usuário e senha são obrigatórios")
		return
	}

	p, err := s.profiles.GetProfileByUsuario(r.Context(), req.Usuario)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "credenciais inválidas")
		return
	}
	if err != nil {
		s.log.Error("falha ao buscar perfil no login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	if !auth.CheckPassword(p.SenhaHash, req.Senha) {
		writeError(w, http.StatusUnauthorized, "credenciais inválidas")
		return
	}
	if p.Status == "bloqueado" {
		writeError(w, http.StatusForbidden, "usuário bloqueado")
		return
	}

	token, err := s.auth.Issue(p.ID, p.Nome, p.Role, p.Comissao)
	if err != nil {
		s.log.Error("falha ao emitir token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "erro interno")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		Profile: dto.ProfileResponse{
			ID:       p.ID,
			Nome:     p.Nome,
			Usuario:  p.Usuario,
			Email:    p.Email,
			Role:     p.Role,
			Comissao: p.Comissao,
			Status:   p.Status,
		},
	})
}
