package dto

// LoginRequest autentica por usuário e senha
type LoginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

// GameRequest cria ou atualiza um jogo
type GameRequest struct {
	Nome              string  `json:"nome"`
	Tipo              string  `json:"tipo"` // milhar | centena | dezena
	ValorMinimo       float64 `json:"valor_minimo"`
	ValorMaximo       float64 `json:"valor_maximo"`
	Multiplicador     float64 `json:"multiplicador"`
	HorarioAbertura   string  `json:"horario_abertura"`
	HorarioFechamento string  `json:"horario_fechamento"`
	Ativo             *bool   `json:"ativo,omitempty"`
}

// BlockNumberRequest bloqueia um número para o jogo da rota
type BlockNumberRequest struct {
	Numero string `json:"numero"`
}

// SelectGameRequest escolhe o jogo do lote de entrada
type SelectGameRequest struct {
	GameID string `json:"game_id"`
}

// AddNumberRequest enfileira um número. Valor ausente (zero) é aceito e
// corrigido depois via SetStakeRequest.
type AddNumberRequest struct {
	Numero string  `json:"numero"`
	Valor  float64 `json:"valor"`
}

// AddRandomRequest enfileira um número gerado pela casa
type AddRandomRequest struct {
	Valor float64 `json:"valor"`
}

// SetStakeRequest corrige o valor de uma entrada já na fila
type SetStakeRequest struct {
	Valor float64 `json:"valor"`
}

// ApostadorRequest registra os dados do apostador do lote atual
type ApostadorRequest struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}
