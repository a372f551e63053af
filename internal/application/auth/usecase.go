package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// RoleDashboard rol del operador del panel.
const RoleDashboard = "dashboard"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credentials credenciales configuradas del panel (DASHBOARD_EMAIL / DASHBOARD_PASSWORD).
type Credentials struct {
	Email    string
	Password string
}

// AuthUseCase login del panel de administración contra las credenciales configuradas.
// La contraseña se guarda solo como hash bcrypt.
type AuthUseCase struct {
	email        string
	passwordHash []byte
	jwtCfg       JWTConfig
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso. Sin email o contraseña configurados el login
// queda deshabilitado (todo intento devuelve ErrUnauthorized).
func NewAuthUseCase(creds Credentials, jwtCfg JWTConfig) (*AuthUseCase, error) {
	uc := &AuthUseCase{email: strings.TrimSpace(creds.Email), jwtCfg: jwtCfg, now: time.Now}
	if uc.email == "" || creds.Password == "" {
		return uc, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de contraseña del panel: %w", err)
	}
	uc.passwordHash = hash
	return uc, nil
}

// Enabled informa si hay credenciales configuradas.
func (uc *AuthUseCase) Enabled() bool { return uc.passwordHash != nil }

// Login verifica email/password y genera el JWT del panel.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(in.Email), uc.email) {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.email, RoleDashboard, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Email:     uc.email,
		Role:      RoleDashboard,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}, nil
}
