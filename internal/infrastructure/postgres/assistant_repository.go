package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.AssistantRepository = (*AssistantRepo)(nil)

const assistantColumns = `id, tenant_id, name, prompt_template_id, prompt, model, temperature, enabled, created_at, updated_at`

// AssistantRepo asistentes sobre PostgreSQL. temperature es NUMERIC (codec shopspring/decimal).
type AssistantRepo struct {
	q Querier
}

// NewAssistantRepository construye el adaptador.
func NewAssistantRepository(q Querier) *AssistantRepo {
	return &AssistantRepo{q: q}
}

// Upsert inserta o actualiza un asistente por ID.
func (r *AssistantRepo) Upsert(ctx context.Context, a *entity.Assistant) error {
	query := `
		INSERT INTO assistants (` + assistantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			prompt_template_id = EXCLUDED.prompt_template_id,
			prompt = EXCLUDED.prompt,
			model = EXCLUDED.model,
			temperature = EXCLUDED.temperature,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
		WHERE assistants.tenant_id = EXCLUDED.tenant_id`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.TenantID, a.Name, a.PromptTemplateID, a.Prompt, a.Model,
		a.Temperature, a.Enabled, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("upsert assistant", err)
	}
	// El id existe pero es de otro tenant.
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un asistente por ID.
func (r *AssistantRepo) GetByID(ctx context.Context, id string) (*entity.Assistant, error) {
	a, err := scanAssistant(r.q.QueryRow(ctx, `SELECT `+assistantColumns+` FROM assistants WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assistant: %w", err)
	}
	return a, nil
}

// ListByTenant lista los asistentes del tenant en orden de creación.
func (r *AssistantRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Assistant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+assistantColumns+` FROM assistants WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Assistant
	for rows.Next() {
		a, err := scanAssistant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assistant: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAssistant(row pgx.Row) (*entity.Assistant, error) {
	var a entity.Assistant
	err := row.Scan(
		&a.ID, &a.TenantID, &a.Name, &a.PromptTemplateID, &a.Prompt, &a.Model,
		&a.Temperature, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
