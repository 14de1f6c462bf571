package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema cria as tabelas do domínio caso ainda não existam.
// Executado no start de cada serviço que depende do Postgres.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY,
			nome TEXT NOT NULL,
			tipo TEXT NOT NULL,
			valor_minimo NUMERIC(12,2) NOT NULL DEFAULT 0,
			valor_maximo NUMERIC(12,2) NOT NULL DEFAULT 0,
			multiplicador NUMERIC(12,2) NOT NULL DEFAULT 0,
			horario_abertura TEXT NOT NULL DEFAULT '',
			horario_fechamento TEXT NOT NULL DEFAULT '',
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS blocked_numbers (
			id UUID PRIMARY KEY,
			game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			numero TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (game_id, numero)
		)`,
		`CREATE TABLE IF NOT EXISTS bets (
			id UUID PRIMARY KEY,
			vendedor_id UUID NOT NULL,
			vendedor_nome TEXT,
			tipo_jogo TEXT NOT NULL,
			numero TEXT NOT NULL,
			valor NUMERIC(12,2) NOT NULL,
			data_hora TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status TEXT NOT NULL DEFAULT 'ativa',
			codigo TEXT NOT NULL,
			apostador_nome TEXT,
			apostador_telefone TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_vendedor ON bets (vendedor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_data_hora ON bets (data_hora DESC)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			nome TEXT NOT NULL,
			usuario TEXT NOT NULL UNIQUE,
			email TEXT UNIQUE,
			senha_hash TEXT NOT NULL,
			comissao NUMERIC(5,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'ativo',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
			role TEXT NOT NULL DEFAULT 'vendedor'
		)`,
		`CREATE TABLE IF NOT EXISTS bet_transactions (
			id BIGSERIAL PRIMARY KEY,
			bet_id UUID NOT NULL,
			old_status TEXT NOT NULL,
			new_status TEXT NOT NULL,
			reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
