// Package queue cola de llamadas diferidas ejecutadas en orden, con un resultado por llamada.
package queue

import (
	"context"
	"sync"
)

// Result resultado de una llamada diferida.
type Result struct {
	Name string
	Err  error
}

// OK indica si la llamada terminó sin error.
func (r Result) OK() bool { return r.Err == nil }

type call struct {
	name string
	fn   func(ctx context.Context) error
}

// Queue acumula llamadas y las ejecuta secuencialmente; un fallo no detiene las siguientes.
type Queue struct {
	mu    sync.Mutex
	calls []call
}

// New crea una cola vacía.
func New() *Queue {
	return &Queue{}
}

// Enqueue agrega una llamada con un nombre para identificar su resultado.
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, call{name: name, fn: fn})
}

// Len número de llamadas pendientes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

// Execute vacía la cola y ejecuta cada llamada en orden. Con el contexto cancelado las
// pendientes se reportan con ctx.Err() sin ejecutarse.
func (q *Queue) Execute(ctx context.Context) []Result {
	q.mu.Lock()
	calls := q.calls
	q.calls = nil
	q.mu.Unlock()

	results := make([]Result, 0, len(calls))
	for _, c := range calls {
		err := ctx.Err()
		if err == nil {
			err = c.fn(ctx)
		}
		results = append(results, Result{Name: c.name, Err: err})
	}
	return results
}

// Failed filtra los resultados con error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
