package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sorteweb/banca-platform/internal/banca-service/gametype"
)

var (
	ErrNotFound          = errors.New("registro não encontrado")
	ErrInvalidTransition = errors.New("transição de status inválida")
)

// Postgres implementa a persistência de jogos, números bloqueados,
// apostas e leitura de perfis em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ---- games ----

// ListGames retorna todos os jogos em ordem de cadastro
func (p *Postgres) ListGames(ctx context.Context) ([]Game, error) {
	const q = `
		SELECT id, nome, tipo, valor_minimo, valor_maximo, multiplicador,
		       horario_abertura, horario_fechamento, ativo, created_at
		FROM games
		ORDER BY created_at ASC`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		var g Game
		var tipo string
		if err := rows.Scan(&g.ID, &g.Nome, &tipo, &g.ValorMinimo, &g.ValorMaximo,
			&g.Multiplicador, &g.HorarioAbertura, &g.HorarioFechamento, &g.Ativo, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Tipo = gametype.GameType(tipo)
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateGame insere um novo jogo e preenche ID e CreatedAt
func (p *Postgres) CreateGame(ctx context.Context, g *Game) error {
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO games (id, nome, tipo, valor_minimo, valor_maximo, multiplicador,
		                   horario_abertura, horario_fechamento, ativo, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		g.ID, g.Nome, string(g.Tipo), g.ValorMinimo, g.ValorMaximo, g.Multiplicador,
		g.HorarioAbertura, g.HorarioFechamento, g.Ativo, g.CreatedAt,
	)
	return err
}

// UpdateGame substitui os campos do jogo pelo id
func (p *Postgres) UpdateGame(ctx context.Context, g *Game) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE games
		SET nome=$2, tipo=$3, valor_minimo=$4, valor_maximo=$5, multiplicador=$6,
		    horario_abertura=$7, horario_fechamento=$8, ativo=$9
		WHERE id=$1`,
		g.ID, g.Nome, string(g.Tipo), g.ValorMinimo, g.ValorMaximo, g.Multiplicador,
		g.HorarioAbertura, g.HorarioFechamento, g.Ativo,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame remove o jogo; números bloqueados cascateiam no banco
func (p *Postgres) DeleteGame(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM games WHERE id=$1`, id)
	return err
}

// ---- blocked_numbers ----

// ListBlockedNumbers retorna o conjunto completo de números bloqueados
func (p *Postgres) ListBlockedNumbers(ctx context.Context) ([]BlockedNumber, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, game_id, numero, created_at FROM blocked_numbers ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BlockedNumber
	for rows.Next() {
		var b BlockedNumber
		if err := rows.Scan(&b.ID, &b.GameID, &b.Numero, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBlockedNumber insere o par (game, numero); duplicado é no-op
// e o registro já existente é devolvido
func (p *Postgres) CreateBlockedNumber(ctx context.Context, b *BlockedNumber) error {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO blocked_numbers (id, game_id, numero, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (game_id, numero) DO NOTHING`,
		b.ID, b.GameID, b.Numero, b.CreatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return p.db.QueryRowContext(ctx,
			`SELECT id, created_at FROM blocked_numbers WHERE game_id=$1 AND numero=$2`,
			b.GameID, b.Numero).Scan(&b.ID, &b.CreatedAt)
	}
	return nil
}

// DeleteBlockedNumber remove o bloqueio pelo id
func (p *Postgres) DeleteBlockedNumber(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM blocked_numbers WHERE id=$1`, id)
	return err
}

// ---- bets ----

// ListBets retorna as apostas da mais recente para a mais antiga
func (p *Postgres) ListBets(ctx context.Context) ([]Bet, error) {
	const q = `
		SELECT id, vendedor_id, COALESCE(vendedor_nome,''), tipo_jogo, numero, valor,
		       data_hora, status, codigo, COALESCE(apostador_nome,''), COALESCE(apostador_telefone,'')
		FROM bets
		ORDER BY data_hora DESC`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var b Bet
		var tipo, status string
		if err := rows.Scan(&b.ID, &b.VendedorID, &b.VendedorNome, &tipo, &b.Numero, &b.Valor,
			&b.DataHora, &status, &b.Codigo, &b.ApostadorNome, &b.ApostadorTelefone); err != nil {
			return nil, err
		}
		b.TipoJogo = gametype.GameType(tipo)
		b.Status = BetStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBet insere a aposta já com codigo, status e data_hora preenchidos
// pelo ledger; apenas atribui o id
func (p *Postgres) CreateBet(ctx context.Context, b *Bet) error {
	b.ID = uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, vendedor_id, vendedor_nome, tipo_jogo, numero, valor,
		                  data_hora, status, codigo, apostador_nome, apostador_telefone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),NULLIF($11,''))`,
		b.ID, b.VendedorID, b.VendedorNome, string(b.TipoJogo), b.Numero, b.Valor,
		b.DataHora, string(b.Status), b.Codigo, b.ApostadorNome, b.ApostadorTelefone,
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

// UpdateBetStatus troca o status somente se o atual for o esperado
// e devolve a aposta atualizada
func (p *Postgres) UpdateBetStatus(ctx context.Context, id string, from, to BetStatus) (*Bet, error) {
	const q = `
		UPDATE bets SET status=$3
		WHERE id=$1 AND status=$2
		RETURNING id, vendedor_id, COALESCE(vendedor_nome,''), tipo_jogo, numero, valor,
		          data_hora, status, codigo, COALESCE(apostador_nome,''), COALESCE(apostador_telefone,'')`
	var b Bet
	var tipo, status string
	err := p.db.QueryRowContext(ctx, q, id, string(from), string(to)).Scan(
		&b.ID, &b.VendedorID, &b.VendedorNome, &tipo, &b.Numero, &b.Valor,
		&b.DataHora, &status, &b.Codigo, &b.ApostadorNome, &b.ApostadorTelefone,
	)
	if err == sql.ErrNoRows {
		var exists bool
		if e := p.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bets WHERE id=$1)`, id).Scan(&exists); e == nil && exists {
			return nil, ErrInvalidTransition
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.TipoJogo = gametype.GameType(tipo)
	b.Status = BetStatus(status)
	return &b, nil
}

// ---- profiles (somente leitura no banca-service) ----

// GetProfileByUsuario carrega o perfil pelo login; o cargo vem de consulta
// separada em user_roles
func (p *Postgres) GetProfileByUsuario(ctx context.Context, usuario string) (*Profile, error) {
	var pr Profile
	err := p.db.QueryRowContext(ctx, `
		SELECT id, nome, usuario, email, senha_hash, comissao, status, created_at
		FROM profiles WHERE usuario=$1`, usuario).Scan(
		&pr.ID, &pr.Nome, &pr.Usuario, &pr.Email, &pr.SenhaHash, &pr.Comissao, &pr.Status, &pr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	pr.Role = p.roleFor(ctx, pr.ID)
	return &pr, nil
}

// GetProfileByID carrega o perfil pelo identificador
func (p *Postgres) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	var pr Profile
	err := p.db.QueryRowContext(ctx, `
		SELECT id, nome, usuario, email, senha_hash, comissao, status, created_at
		FROM profiles WHERE id=$1`, id).Scan(
		&pr.ID, &pr.Nome, &pr.Usuario, &pr.Email, &pr.SenhaHash, &pr.Comissao, &pr.Status, &pr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	pr.Role = p.roleFor(ctx, pr.ID)
	return &pr, nil
}

func (p *Postgres) roleFor(ctx context.Context, userID string) string {
	var role string
	err := p.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id=$1`, userID).Scan(&role)
	if err != nil {
		return "vendedor"
	}
	return role
}
