package memory

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: los repositorios de fn anotan el valor previo de cada clave
// que escriben y, si fn falla, solo esas claves se restauran. Las escrituras de otras sesiones
// sobre claves distintas se conservan; no hay aislamiento de lectura.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner sobre la base en memoria.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con repositorios atados a un journal propio.
func (r *TxRunner) Run(_ context.Context, fn func(repos repository.Repositories) error) error {
	j := &journal{}
	if err := fn(r.db.repositories(j)); err != nil {
		r.db.rollback(j)
		return err
	}
	return nil
}

// journal deshace las escrituras de una transacción en orden inverso.
type journal struct {
	undo []func()
}

// track anota el estado previo de m[key]. Llamar con db.mu tomado y antes de escribir.
func track[V any](j *journal, m map[string]V, key string) {
	if j == nil {
		return
	}
	old, existed := m[key]
	j.undo = append(j.undo, func() {
		if existed {
			m[key] = old
		} else {
			delete(m, key)
		}
	})
}

func (db *DB) rollback(j *journal) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
