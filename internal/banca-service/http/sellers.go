package http

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/seller"
)

// As rotas de vendedores são um repasse para o seller-service, que
// concentra a escrita privilegiada em profiles e user_roles. O token do
// admin segue na requisição encaminhada.

func (s *Server) listSellers(w http.ResponseWriter, r *http.Request) {
	if s.sellers == nil {
		writeError(w, http.StatusServiceUnavailable, "gestão de vendedores indisponível")
		return
	}
	status, body, err := s.sellers.List(r.Context(), bearerFrom(r))
	if err != nil {
		s.log.Error("falha ao consultar seller-service", zap.Error(err))
		writeError(w, http.StatusBadGateway, "gestão de vendedores indisponível")
		return
	}
	relay(w, status, body)
}

func (s *Server) manageSeller(w http.ResponseWriter, r *http.Request) {
	if s.sellers == nil {
		writeError(w, http.StatusServiceUnavailable, "gestão de vendedores indisponível")
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	var req seller.ManageRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "json inválido")
		return
	}

	status, body, err := s.sellers.Manage(r.Context(), bearerFrom(r), req)
	if err != nil {
		s.log.Error("falha ao encaminhar ação ao seller-service", zap.Error(err))
		writeError(w, http.StatusBadGateway, "gestão de vendedores indisponível")
		return
	}
	relay(w, status, body)
}

func relay(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
