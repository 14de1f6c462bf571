package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/seller-service/dto"
	"github.com/sorteweb/banca-platform/internal/seller-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
)

// Store é o contrato de persistência da gestão de vendedores
type Store interface {
	List(ctx context.Context) ([]repo.Seller, error)
	GetByID(ctx context.Context, id string) (*repo.Seller, error)
	Create(ctx context.Context, s *repo.Seller) error
	Update(ctx context.Context, s *repo.Seller) error
	Delete(ctx context.Context, id string) error
}

var usuarioRe = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

// Server concentra a escrita privilegiada em profiles e user_roles.
// Todas as rotas exigem token de admin.
type Server struct {
	log   *zap.Logger
	auth  *auth.Manager
	store Store
}

func NewServer(log *zap.Logger, am *auth.Manager, store Store) *Server {
	return &Server{log: log, auth: am, store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requireAdmin)
	r.Get("/sellers", s.list)
	r.Post("/manage-seller", s.manage)
	return r
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "token ausente")
			return
		}
		claims, err := s.auth.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "token inválido ou expirado")
			return
		}
		if claims.Role != "admin" {
			writeError(w, http.StatusForbidden, "apenas administradores gerenciam vendedores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	sellers, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("falha ao listar vendedores", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromSellers(sellers))
}

func (s *Server) manage(w http.ResponseWriter, r *http.Request) {
	var req dto.ManageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}

	switch req.Action {
	case "create":
		var data dto.SellerData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}
		s.create(w, r, data)
	case "update":
		var data dto.UpdateSellerData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}
		s.update(w, r, data)
	case "delete":
		var data dto.SellerData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}
		s.delete(w, r, data)
	default:
		writeError(w, http.StatusBadRequest, "Ação inválida")
	}
}

func validateCreate(data dto.SellerData) string {
	if data.Nome == "" {
		return "nome é obrigatório"
	}
	if !usuarioRe.MatchString(data.Usuario) {
		return "usuário deve ter 3 a 32 caracteres entre letras minúsculas, dígitos, ponto, hífen e sublinhado"
	}
	if data.Senha == "" {
		return "senha é obrigatória"
	}
	if data.Comissao < 0 || data.Comissao > 100 {
		return "comissão deve estar entre 0 e 100"
	}
	if data.Perfil != "vendedor" && data.Perfil != "gerente" {
		return "perfil deve ser vendedor ou gerente"
	}
	if data.Status != "" && data.Status != "ativo" && data.Status != "bloqueado" {
		return "status deve ser ativo ou bloqueado"
	}
	return ""
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, data dto.SellerData) {
	if msg := validateCreate(data); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	hash, err := auth.HashPassword(data.Senha)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "erro interno")
		return
	}
	status := data.Status
	if status == "" {
		status = "ativo"
	}

	seller := repo.Seller{
		Nome:      data.Nome,
		Usuario:   data.Usuario,
		Email:     data.Email,
		SenhaHash: hash,
		Comissao:  data.Comissao,
		Status:    status,
		Perfil:    data.Perfil,
	}
	if err := s.store.Create(r.Context(), &seller); err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("vendedor criado", zap.String("id", seller.ID), zap.String("usuario", seller.Usuario))
	writeJSON(w, http.StatusCreated, dto.FromSeller(seller))
}

// update é parcial: parte do registro atual e aplica apenas os campos
// presentes no payload. Campo omitido nunca é sobrescrito com default.
func (s *Server) update(w http.ResponseWriter, r *http.Request, data dto.UpdateSellerData) {
	if data.ID == "" {
		writeError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}

	current, err := s.store.GetByID(r.Context(), data.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	merged := *current
	merged.SenhaHash = "" // vazio mantém o hash atual no store

	if data.Nome != nil {
		if *data.Nome == "" {
			writeError(w, http.StatusBadRequest, "nome é obrigatório")
			return
		}
		merged.Nome = *data.Nome
	}
	if data.Usuario != nil {
		if !usuarioRe.MatchString(*data.Usuario) {
			writeError(w, http.StatusBadRequest, "usuário deve ter 3 a 32 caracteres entre letras minúsculas, dígitos, ponto, hífen e sublinhado")
			return
		}
		merged.Usuario = *data.Usuario
	}
	if data.Email != nil {
		merged.Email = *data.Email
	}
	if data.Senha != nil {
		if *data.Senha == "" {
			writeError(w, http.StatusBadRequest, "senha não pode ser vazia")
			return
		}
		hash, err := auth.HashPassword(*data.Senha)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "erro interno")
			return
		}
		merged.SenhaHash = hash
	}
	if data.Comissao != nil {
		if *data.Comissao < 0 || *data.Comissao > 100 {
			writeError(w, http.StatusBadRequest, "comissão deve estar entre 0 e 100")
			return
		}
		merged.Comissao = *data.Comissao
	}
	if data.Perfil != nil {
		if *data.Perfil != "vendedor" && *data.Perfil != "gerente" {
			writeError(w, http.StatusBadRequest, "perfil deve ser vendedor ou gerente")
			return
		}
		merged.Perfil = *data.Perfil
	}
	if data.Status != nil {
		if *data.Status != "ativo" && *data.Status != "bloqueado" {
			writeError(w, http.StatusBadRequest, "status deve ser ativo ou bloqueado")
			return
		}
		merged.Status = *data.Status
	}

	if err := s.store.Update(r.Context(), &merged); err != nil {
		writeStoreError(w, err)
		return
	}
	updated, err := s.store.GetByID(r.Context(), data.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromSeller(*updated))
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request, data dto.SellerData) {
	if data.ID == "" {
		writeError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}
	if err := s.store.Delete(r.Context(), data.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("vendedor removido", zap.String("id", data.ID))
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "Vendedor não encontrado")
	case errors.Is(err, repo.ErrDuplicado):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "erro interno")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
