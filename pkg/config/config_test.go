package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/pkg/config"
)

func TestParseSteps(t *testing.T) {
	steps, err := config.ParseSteps(config.DefaultActiveSteps)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7}, steps)

	steps, err = config.ParseSteps(" 1, 2 ,3,4,5,6,7 ")
	require.NoError(t, err)
	assert.Len(t, steps, 7)
}

func TestParseSteps_Invalidos(t *testing.T) {
	for _, in := range []string{"", "2,3", "1,3,2", "1,1,2", "1,8", "1,x"} {
		_, err := config.ParseSteps(in)
		assert.Error(t, err, in)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "pipeelo.com", cfg.Onboarding.DeployDomain)
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7}, cfg.Onboarding.ActiveSteps)
	assert.Equal(t, 30*time.Second, cfg.Provisioning.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Onboarding.SessionTTL)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 15*time.Second, cfg.DB.StatementTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ONBOARDING_ACTIVE_STEPS", "1,2,3,4,5,6,7")
	t.Setenv("ONBOARDING_SESSION_TTL_MINUTES", "15")
	t.Setenv("PROVISIONING_GATEWAY", "stripe")
	t.Setenv("DB_STATEMENT_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_MAX_CONNS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, cfg.Onboarding.ActiveSteps)
	assert.Equal(t, 15*time.Minute, cfg.Onboarding.SessionTTL)
	assert.Equal(t, "stripe", cfg.Provisioning.Gateway)
	assert.Equal(t, 5*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, 4, cfg.DB.MaxConns)
}

func TestLoad_PasosInvalidos(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ONBOARDING_ACTIVE_STEPS", "2,3")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}
