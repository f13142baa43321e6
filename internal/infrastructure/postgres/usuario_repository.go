package postgres

import (
	"context"
	"fmt"

	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo lectura de usuarios y roles desde PostgreSQL.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador.
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

// PorEmail devuelve el usuario o nil si no existe.
func (r *UsuarioRepo) PorEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	query := `
		SELECT id, email, nombre, rol, password_hash, activo, created_at, updated_at
		FROM usuarios WHERE email = $1`
	var u entity.Usuario
	err := r.q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Nombre, &u.Rol, &u.PasswordHash, &u.Activo, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer usuario: %w", err)
	}
	return &u, nil
}

// Listar devuelve todos los usuarios ordenados por email.
func (r *UsuarioRepo) Listar(ctx context.Context) ([]entity.Usuario, error) {
	query := `
		SELECT id, email, nombre, rol, password_hash, activo, created_at, updated_at
		FROM usuarios ORDER BY email`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	defer rows.Close()

	var lista []entity.Usuario
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(&u.ID, &u.Email, &u.Nombre, &u.Rol, &u.PasswordHash, &u.Activo, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		lista = append(lista, u)
	}
	return lista, rows.Err()
}
