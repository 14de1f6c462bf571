package events

import "time"

// Evento emitido quando um administrador cancela uma aposta ativa.
type BetCancelled struct {
	BetID      string    `json:"bet_id"`
	Codigo     string    `json:"codigo"`
	VendedorID string    `json:"vendedor_id"`
	Motivo     string    `json:"motivo,omitempty"`
	Ts         time.Time `json:"ts"`
}
