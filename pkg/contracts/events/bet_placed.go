package events

type BetPlaced struct {
	BetID        string  `json:"bet_id"`
	Codigo       string  `json:"codigo"`
	VendedorID   string  `json:"vendedor_id"`
	VendedorNome string  `json:"vendedor_nome,omitempty"`
	TipoJogo     string  `json:"tipo_jogo"`
	Numero       string  `json:"numero"`
	Valor        float64 `json:"valor"`
	TsUnixMs     int64   `json:"ts_unix_ms"`
}
