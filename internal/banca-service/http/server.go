package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/blocked"
	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/entry"
	"github.com/sorteweb/banca-platform/internal/banca-service/ledger"
	"github.com/sorteweb/banca-platform/internal/banca-service/registry"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/banca-service/seller"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
)

// ProfileStore é o subconjunto de persistência de perfis usado no login
type ProfileStore interface {
	GetProfileByUsuario(ctx context.Context, usuario string) (*repo.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*repo.Profile, error)
}

type Server struct {
	log      *zap.Logger
	auth     *auth.Manager
	profiles ProfileStore
	games    *registry.Games
	blocked  *blocked.Registry
	ledger   *ledger.Ledger
	entries  *entry.Manager
	sellers  *seller.Client // opcional; nil quando o seller-service não está configurado
}

func NewServer(log *zap.Logger, am *auth.Manager, profiles ProfileStore, games *registry.Games,
	bl *blocked.Registry, led *ledger.Ledger, entries *entry.Manager, sellers *seller.Client) *Server {
	return &Server{
		log:      log,
		auth:     am,
		profiles: profiles,
		games:    games,
		blocked:  bl,
		ledger:   led,
		entries:  entries,
		sellers:  sellers,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/v1/games/active", s.listActiveGames)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole("admin"))
			r.Get("/v1/games", s.listGames)
			r.Post("/v1/games", s.createGame)
			r.Put("/v1/games/{id}", s.updateGame)
			r.Delete("/v1/games/{id}", s.deleteGame)
			r.Post("/v1/games/{id}/toggle", s.toggleGame)
			r.Get("/v1/games/{id}/blocked-numbers", s.listBlocked)
			r.Post("/v1/games/{id}/blocked-numbers", s.addBlocked)
			r.Delete("/v1/blocked-numbers/{id}", s.removeBlocked)
			r.Get("/v1/sellers", s.listSellers)
			r.Post("/v1/sellers/manage", s.manageSeller)
		})

		// transições de status são ação da administração, não do vendedor
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole("admin", "gerente"))
			r.Post("/v1/bets/{id}/cancel", s.cancelBet)
			r.Post("/v1/bets/{id}/pay", s.payBet)
		})

		r.Route("/v1/entry", func(r chi.Router) {
			r.Get("/", s.entryState)
			r.Delete("/", s.entryClear)
			r.Post("/game", s.entrySelectGame)
			r.Post("/apostador", s.entryApostador)
			r.Post("/numbers", s.entryAddNumber)
			r.Post("/numbers/random", s.entryAddRandom)
			r.Put("/numbers/{id}", s.entrySetStake)
			r.Delete("/numbers/{id}", s.entryRemove)
			r.Post("/submit", s.entrySubmit)
		})

		r.Get("/v1/bets", s.listBets)
		r.Get("/v1/bets/summary", s.summary)

		r.Get("/v1/receipts/{codigo}", s.getReceipt)
	})

	return r
}

type ctxKey int

const claimsKey ctxKey = iota

// authenticate valida o token Bearer e injeta as claims no contexto
func (s *Server) authenticate(next http.Handler) http.Handler {
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
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFrom(r)
			for _, role := range roles {
				if claims != nil && claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "acesso negado para este perfil")
		})
	}
}

func claimsFrom(r *http.Request) *auth.Claims {
	c, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return c
}

func bearerFrom(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// writeDomainError traduz os erros das camadas de domínio em status HTTP
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound),
		errors.Is(err, blocked.ErrGameNotFound),
		errors.Is(err, entry.ErrEntradaNaoAchada):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInvalidTransition),
		errors.Is(err, entry.ErrEnvioEmAndamento):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, blocked.ErrNumeroInvalido),
		errors.Is(err, ledger.ErrNumeroInvalido),
		errors.Is(err, ledger.ErrValorInvalido),
		errors.Is(err, entry.ErrNumeroInvalido),
		errors.Is(err, entry.ErrValorInvalido),
		errors.Is(err, entry.ErrValorPendente),
		errors.Is(err, entry.ErrFilaVazia),
		errors.Is(err, entry.ErrNoGameSelected),
		errors.Is(err, entry.ErrGameInactive):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entry.ErrNumeroBloqueado):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
