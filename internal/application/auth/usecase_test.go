package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain"
	pkgjwt "github.com/jhoicas/onboarding-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "onboarding-api-test"}

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	uc, err := auth.NewAuthUseCase(auth.Credentials{Email: "ops@pipeelo.com", Password: "s3cret-pass"}, jwtCfg)
	require.NoError(t, err)
	return uc
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc := newUseCase(t)

	out, err := uc.Login(dto.LoginRequest{Email: "OPS@pipeelo.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "ops@pipeelo.com", claims.Email)
	assert.Equal(t, auth.RoleDashboard, claims.Role)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Login(dto.LoginRequest{Email: "ops@pipeelo.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "otro@pipeelo.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_SinCredencialesConfiguradas(t *testing.T) {
	uc, err := auth.NewAuthUseCase(auth.Credentials{}, jwtCfg)
	require.NoError(t, err)

	assert.False(t, uc.Enabled())
	_, err = uc.Login(dto.LoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
