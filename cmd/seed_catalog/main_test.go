package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
)

func TestWriteSQL_SeedEmbebido(t *testing.T) {
	erp, prompts, err := memory.SeedTemplates()
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSQL(&b, erp, prompts))
	sql := b.String()

	assert.Equal(t, len(erp), strings.Count(sql, "INSERT INTO erp_templates"))
	assert.Equal(t, len(prompts), strings.Count(sql, "INSERT INTO prompt_templates"))
	assert.Contains(t, sql, `"name":"client_secret","type":"password","required":true`)
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	var b strings.Builder
	prompts := []entity.PromptTemplate{{ID: "p1", Name: "D'Ávila", Body: "Olá {empresa}"}}
	require.NoError(t, writeSQL(&b, nil, prompts))

	assert.Contains(t, b.String(), "'D''Ávila'")
}
