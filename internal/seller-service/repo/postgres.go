package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres escreve nas mesmas tabelas profiles e user_roles lidas pelo
// banca-service. Toda mutação de perfil passa por aqui; o banca-service
// só lê.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// List retorna os perfis operacionais (vendedor e gerente), mais
// recentes primeiro.
func (p *Postgres) List(ctx context.Context) ([]Seller, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT p.id, p.nome, p.usuario, COALESCE(p.email,''), p.comissao, p.status, r.role, p.created_at
		  FROM profiles p
		  JOIN user_roles r ON r.user_id = p.id
		 WHERE r.role IN ('vendedor','gerente')
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	var out []Seller
	for rows.Next() {
		var s Seller
		if err := rows.Scan(&s.ID, &s.Nome, &s.Usuario, &s.Email, &s.Comissao, &s.Status, &s.Perfil, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) GetByID(ctx context.Context, id string) (*Seller, error) {
	var s Seller
	err := p.db.QueryRowContext(ctx, `
		SELECT p.id, p.nome, p.usuario, COALESCE(p.email,''), p.senha_hash, p.comissao, p.status, r.role, p.created_at
		  FROM profiles p
		  JOIN user_roles r ON r.user_id = p.id
		 WHERE p.id = $1`, id).
		Scan(&s.ID, &s.Nome, &s.Usuario, &s.Email, &s.SenhaHash, &s.Comissao, &s.Status, &s.Perfil, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return &s, nil
}

// Create insere perfil e papel na mesma transação
func (p *Postgres) Create(ctx context.Context, s *Seller) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, nome, usuario, email, senha_hash, comissao, status, created_at)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8)`,
		s.ID, s.Nome, s.Usuario, s.Email, s.SenhaHash, s.Comissao, s.Status, s.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicado
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1,$2)`, s.ID, s.Perfil); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return tx.Commit()
}

// Update regrava os campos editáveis e o papel. Senha só muda quando um
// novo hash é fornecido.
func (p *Postgres) Update(ctx context.Context, s *Seller) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE profiles
		   SET nome = $2,
		       usuario = $3,
		       email = NULLIF($4,''),
		       senha_hash = COALESCE(NULLIF($5,''), senha_hash),
		       comissao = $6,
		       status = $7
		 WHERE id = $1`,
		s.ID, s.Nome, s.Usuario, s.Email, s.SenhaHash, s.Comissao, s.Status)
	if isUniqueViolation(err) {
		return ErrDuplicado
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE user_roles SET role = $2 WHERE user_id = $1`, s.ID, s.Perfil); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return tx.Commit()
}

// Delete remove o perfil; user_roles cai junto pela FK em cascata
func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
