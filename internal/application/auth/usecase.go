package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/pkg/jwt"
	"github.com/jhoicas/stock-tracker/pkg/password"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación contra el almacén de credenciales (solo lectura).
type AuthUseCase struct {
	userRepo  repository.UserRepository
	jwtCfg    JWTConfig
	dummyHash string
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) (*AuthUseCase, error) {
	// Hash de relleno: un usuario inexistente cuesta lo mismo que una contraseña errada
	dummy, err := password.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &AuthUseCase{
		userRepo:  userRepo,
		jwtCfg:    jwtCfg,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Authenticate verifica username/password. Cualquier desajuste es ErrInvalidCredentials,
// sin indicar cuál campo falló. Fallas del almacén son *domain.StorageError.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, plain string) (*entity.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewStorageError("find user", err)
	}

	stored := uc.dummyHash
	if user != nil {
		stored = user.PasswordHash
	}
	ok, err := password.Verify(stored, plain)
	if err != nil {
		if errors.Is(err, password.ErrUnsupportedHash) {
			return nil, fmt.Errorf("%w: hash almacenado ilegible", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if user == nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &entity.Session{Username: user.Username, AuthenticatedAt: uc.now().UTC()}, nil
}

// Authorize es verdadero solo si hay una sesión con identidad.
func (uc *AuthUseCase) Authorize(s *entity.Session) bool {
	return s != nil && s.Username != ""
}

// Login autentica y emite un JWT para la API JSON.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	session, err := uc.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, session.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Username:  session.Username,
		ExpiresAt: session.AuthenticatedAt.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}, nil
}
