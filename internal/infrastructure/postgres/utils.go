package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/onboarding-api/internal/domain"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLSTATE usados para clasificar errores de escritura.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// columnas con llave foránea conocidas; el nombre por defecto de Postgres es <tabla>_<columna>_fkey.
var foreignKeyFields = []string{
	domain.FieldPromptTemplateID,
	domain.FieldERPTemplateID,
	domain.FieldTenantID,
	domain.FieldAddressID,
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return false
}

// mapWriteError traduce errores de escritura a errores de dominio: 23503 a
// *domain.ConstraintError con la columna afectada, 23505 a domain.ErrDuplicate.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return &domain.ConstraintError{
				Constraint: pgErr.ConstraintName,
				Field:      foreignKeyField(pgErr.ConstraintName),
				Err:        err,
			}
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// foreignKeyField deduce la columna a partir del nombre del constraint.
func foreignKeyField(constraint string) string {
	name := strings.TrimSuffix(constraint, "_fkey")
	for _, f := range foreignKeyFields {
		if strings.HasSuffix(name, f) {
			return f
		}
	}
	return name
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
