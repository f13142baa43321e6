// Package auth contiene el caso de uso de autenticación: login con bcrypt y
// emisión de JWT con el rol embebido para el control de capacidades.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	usuarios repository.UsuarioRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarios repository.UsuarioRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarios: usuarios, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera el JWT y retorna token + usuario.
// Credenciales inválidas y usuario inexistente devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarios.PorEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if usuario == nil {
		return nil, domain.ErrNoAutorizado
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrNoAutorizado
	}
	if !usuario.Activo {
		return nil, domain.ErrPermisoDenegado
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, usuario.ID, usuario.Nombre, usuario.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	return &dto.LoginResponse{Token: token, Usuario: toUsuarioDTO(usuario)}, nil
}

// ListarUsuarios devuelve los usuarios registrados, sin campos sensibles.
func (uc *AuthUseCase) ListarUsuarios(ctx context.Context) ([]dto.UsuarioDTO, error) {
	usuarios, err := uc.usuarios.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UsuarioDTO, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, toUsuarioDTO(&usuarios[i]))
	}
	return out, nil
}

func toUsuarioDTO(u *entity.Usuario) dto.UsuarioDTO {
	return dto.UsuarioDTO{
		ID:     u.ID,
		Email:  u.Email,
		Nombre: u.Nombre,
		Rol:    u.Rol,
	}
}
