package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User representa un usuario de un tenant. El onboarding solo crea el administrador.
type User struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Document     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
