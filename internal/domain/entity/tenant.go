package entity

import "time"

// Tenant representa el cliente SaaS que se está aprovisionando (raíz del agregado).
type Tenant struct {
	ID           string
	Name         string
	Document     string // CNPJ/CPF solo dígitos
	Phone        string
	Email        string
	Website      string
	Sector       string
	AddressID    *string
	PipeeloToken *string // token permanente obtenido en el paso 1; nil hasta el intercambio
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasToken informa si el tenant ya tiene un token permanente persistido.
func (t *Tenant) HasToken() bool {
	return t != nil && t.PipeeloToken != nil && *t.PipeeloToken != ""
}

// Address dirección física, propiedad exclusiva de un Tenant.
type Address struct {
	ID           string
	Street       string
	Number       string
	Neighborhood string
	Country      string
	State        string
	City         string
	Complement   string
	PostalCode   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
