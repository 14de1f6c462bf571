package dto

import (
	"time"

	"github.com/sorteweb/banca-platform/internal/banca-service/entry"
	"github.com/sorteweb/banca-platform/internal/banca-service/receipt"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
)

// ErrorResponse é o envelope de erro padrão da API
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProfileResponse é a identidade pública de um usuário
type ProfileResponse struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	Usuario  string  `json:"usuario"`
	Email    string  `json:"email,omitempty"`
	Role     string  `json:"role"`
	Comissao float64 `json:"comissao"`
	Status   string  `json:"status"`
}

// LoginResponse devolve o token de sessão e o perfil autenticado
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// GameResponse é a visão pública de um jogo
type GameResponse struct {
	ID                string  `json:"id"`
	Nome              string  `json:"nome"`
	Tipo              string  `json:"tipo"`
	ValorMinimo       float64 `json:"valor_minimo"`
	ValorMaximo       float64 `json:"valor_maximo"`
	Multiplicador     float64 `json:"multiplicador"`
	HorarioAbertura   string  `json:"horario_abertura"`
	HorarioFechamento string  `json:"horario_fechamento"`
	Ativo             bool    `json:"ativo"`
}

func FromGame(g repo.Game) GameResponse {
	return GameResponse{
		ID:                g.ID,
		Nome:              g.Nome,
		Tipo:              string(g.Tipo),
		ValorMinimo:       g.ValorMinimo,
		ValorMaximo:       g.ValorMaximo,
		Multiplicador:     g.Multiplicador,
		HorarioAbertura:   g.HorarioAbertura,
		HorarioFechamento: g.HorarioFechamento,
		Ativo:             g.Ativo,
	}
}

func FromGames(games []repo.Game) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, FromGame(g))
	}
	return out
}

// BlockedNumberResponse é um bloqueio vigente
type BlockedNumberResponse struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Numero string `json:"numero"`
}

func FromBlocked(items []repo.BlockedNumber) []BlockedNumberResponse {
	out := make([]BlockedNumberResponse, 0, len(items))
	for _, b := range items {
		out = append(out, BlockedNumberResponse{ID: b.ID, GameID: b.GameID, Numero: b.Numero})
	}
	return out
}

// BetResponse é a visão pública de uma aposta do ledger
type BetResponse struct {
	ID                string    `json:"id"`
	VendedorID        string    `json:"vendedor_id"`
	VendedorNome      string    `json:"vendedor_nome"`
	TipoJogo          string    `json:"tipo_jogo"`
	Numero            string    `json:"numero"`
	Valor             float64   `json:"valor"`
	DataHora          time.Time `json:"data_hora"`
	Status            string    `json:"status"`
	Codigo            string    `json:"codigo"`
	ApostadorNome     string    `json:"apostador_nome,omitempty"`
	ApostadorTelefone string    `json:"apostador_telefone,omitempty"`
}

func FromBet(b repo.Bet) BetResponse {
	return BetResponse{
		ID:                b.ID,
		VendedorID:        b.VendedorID,
		VendedorNome:      b.VendedorNome,
		TipoJogo:          string(b.TipoJogo),
		Numero:            b.Numero,
		Valor:             b.Valor,
		DataHora:          b.DataHora,
		Status:            string(b.Status),
		Codigo:            b.Codigo,
		ApostadorNome:     b.ApostadorNome,
		ApostadorTelefone: b.ApostadorTelefone,
	}
}

func FromBets(bets []repo.Bet) []BetResponse {
	out := make([]BetResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, FromBet(b))
	}
	return out
}

// EntryStateResponse é o retrato da sessão de entrada do vendedor
type EntryStateResponse struct {
	State   string        `json:"state"`
	Game    *GameResponse `json:"game,omitempty"`
	Entries []entry.Entry `json:"entries"`
	Total   float64       `json:"total"`
}

// ReceiptResponse é o comprovante em JSON
type ReceiptResponse struct {
	Codigo          string    `json:"codigo"`
	DataHora        time.Time `json:"data_hora"`
	TipoJogo        string    `json:"tipo_jogo"`
	VendedorNome    string    `json:"vendedor_nome"`
	ApostadorNome   string    `json:"apostador_nome,omitempty"`
	Numeros         []string  `json:"numeros"`
	ValorUnitario   float64   `json:"valor_unitario"`
	Quantidade      int       `json:"quantidade"`
	Total           float64   `json:"total"`
	Multiplicador   float64   `json:"multiplicador"`
	PremioPotencial float64   `json:"premio_potencial"`
}

func FromReceipt(r receipt.Receipt) ReceiptResponse {
	return ReceiptResponse{
		Codigo:          r.DisplayCodigo(),
		DataHora:        r.DataHora,
		TipoJogo:        string(r.TipoJogo),
		VendedorNome:    r.VendedorNome,
		ApostadorNome:   r.ApostadorNome,
		Numeros:         r.Numeros,
		ValorUnitario:   r.ValorUnitario,
		Quantidade:      r.Quantidade,
		Total:           r.Total,
		Multiplicador:   r.Multiplicador,
		PremioPotencial: r.PremioPotencial,
	}
}

// SubmitResponse devolve as apostas gravadas e o comprovante do lote
type SubmitResponse struct {
	Bets    []BetResponse   `json:"bets"`
	Receipt ReceiptResponse `json:"receipt"`
}

// SummaryResponse é o resumo do dia na visão do vendedor
type SummaryResponse struct {
	Data     string  `json:"data"` // "2006-01-02"
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Comissao float64 `json:"comissao"`
}
