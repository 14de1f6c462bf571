package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sorteweb/banca-platform/internal/banca-service/dto"
	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
	"github.com/sorteweb/banca-platform/internal/banca-service/receipt"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

// listBets devolve o ledger filtrado. Vendedor enxerga só as próprias
// apostas; gerente e admin enxergam tudo.
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	q := r.URL.Query()

	bets := s.ledger.Search(
		q.Get("search"),
		gametype.GameType(q.Get("tipo")),
		repo.BetStatus(q.Get("status")),
	)
	if claims.Role == "vendedor" {
		var own []repo.Bet
		for _, b := range bets {
			if b.VendedorID == claims.Subject {
				own = append(own, b)
			}
		}
		bets = own
	}
	writeJSON(w, http.StatusOK, dto.FromBets(bets))
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.ledger.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromBet(cancelled))
}

func (s *Server) payBet(w http.ResponseWriter, r *http.Request) {
	paid, err := s.ledger.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromBet(paid))
}

// summary é o resumo do dia do vendedor autenticado. Gerente e admin
// podem passar ?vendedor_id= para outro vendedor, ou omitir para o
// total da banca.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	vendedorID := claims.Subject
	comissao := claims.Comissao
	if claims.Role != "vendedor" {
		vendedorID = r.URL.Query().Get("vendedor_id")
		comissao = 0
		if vendedorID != "" {
			if p, err := s.profiles.GetProfileByID(r.Context(), vendedorID); err == nil {
				comissao = p.Comissao
			}
		}
	}

	writeJSON(w, http.StatusOK, dto.SummaryResponse{
		Data:     time.Now().Format("2006-01-02"),
		Total:    s.ledger.TodayTotal(vendedorID),
		Count:    s.ledger.TodayCount(vendedorID),
		Comissao: s.ledger.CommissionToday(vendedorID, comissao),
	})
}

// getReceipt reimprime o comprovante de uma aposta pelo código do
// bilhete, em json (padrão), texto térmico, html ou pdf.
func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")

	b, ok := s.ledger.ByCodigo(codigo)
	if !ok {
		writeError(w, http.StatusNotFound, "comprovante não encontrado")
		return
	}

	claims := claimsFrom(r)
	if claims.Role == "vendedor" && b.VendedorID != claims.Subject {
		writeError(w, http.StatusForbidden, "aposta pertence a outro vendedor")
		return
	}

	// a reimpressão cobre uma aposta; o multiplicador vem do jogo ativo
	// da mesma modalidade, quando houver
	var game *repo.Game
	for _, g := range s.games.ListActive() {
		if g.Tipo == b.TipoJogo {
			game = &g
			break
		}
	}

	rec, err := receipt.Build([]repo.Bet{b}, game)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(receipt.RenderText(rec)))
	case "html":
		out, err := receipt.RenderHTML(rec)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(out)
	case "pdf":
		out, err := receipt.RenderPDF(rec)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(out)
	default:
		writeJSON(w, http.StatusOK, dto.FromReceipt(rec))
	}
}
