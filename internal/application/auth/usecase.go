package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/repository"
	"github.com/jhoicas/apex-am/pkg/jwt"
)

// TokenType tipo de token devuelto en el login.
const TokenType = "bearer"

// AuthUseCase casos de uso de autenticación: login y resolución del usuario de un token.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens *jwt.Manager) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens}
}

// Login verifica email/password y emite un JWT.
// Email desconocido y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	token, err := uc.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

// Authenticate valida el token y recarga el usuario: el rol usado para autorizar
// es siempre el persistido, no el del claim.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("cargar usuario del token: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

// HashPassword genera el hash bcrypt (lo usa también el seeder).
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
