// Package catalog expone las plantillas ERP y de prompt con carga diferida y caché de proceso.
package catalog

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

const (
	keyERP     = "erp"
	keyPrompts = "prompts"
)

// Catalog carga el catálogo una sola vez. Solo se cachean cargas exitosas: ante un error se
// registra en el log, se devuelve una lista vacía y el siguiente llamado vuelve a intentar.
// La carga es compartida entre llamadores concurrentes, por eso no hereda la cancelación del
// primero.
type Catalog struct {
	src   repository.TemplateRepository
	log   zerolog.Logger
	group singleflight.Group

	mu      sync.RWMutex
	erp     []entity.ERPTemplate
	prompts []entity.PromptTemplate
	loaded  map[string]bool
	gen     uint64 // se incrementa en Invalidate; una carga iniciada antes no se cachea
}

// New construye el catálogo sobre la fuente indicada.
func New(src repository.TemplateRepository, log zerolog.Logger) *Catalog {
	return &Catalog{
		src:    src,
		log:    log.With().Str("component", "catalog").Logger(),
		loaded: make(map[string]bool),
	}
}

// Invalidate descarta el caché; la siguiente lectura vuelve a la fuente. Se llama después de
// modificar plantillas desde el panel.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.erp, c.prompts = nil, nil
	c.loaded = make(map[string]bool)
	c.mu.Unlock()
	c.group.Forget(keyERP)
	c.group.Forget(keyPrompts)
}

// ListERPTemplates devuelve las plantillas ERP; nunca falla.
func (c *Catalog) ListERPTemplates(ctx context.Context) []entity.ERPTemplate {
	c.mu.RLock()
	if c.loaded[keyERP] {
		out := append([]entity.ERPTemplate{}, c.erp...)
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(keyERP, func() (any, error) {
		c.mu.RLock()
		if c.loaded[keyERP] {
			defer c.mu.RUnlock()
			return c.erp, nil
		}
		gen := c.gen
		c.mu.RUnlock()
		list, err := c.src.ListERPTemplates(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if gen == c.gen {
			c.erp, c.loaded[keyERP] = list, true
		}
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		c.log.Error().Err(err).Msg("no se pudieron cargar las plantillas ERP")
		return []entity.ERPTemplate{}
	}
	return append([]entity.ERPTemplate{}, v.([]entity.ERPTemplate)...)
}

// ListPromptTemplates devuelve las plantillas de prompt; nunca falla.
func (c *Catalog) ListPromptTemplates(ctx context.Context) []entity.PromptTemplate {
	c.mu.RLock()
	if c.loaded[keyPrompts] {
		out := append([]entity.PromptTemplate{}, c.prompts...)
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(keyPrompts, func() (any, error) {
		c.mu.RLock()
		if c.loaded[keyPrompts] {
			defer c.mu.RUnlock()
			return c.prompts, nil
		}
		gen := c.gen
		c.mu.RUnlock()
		list, err := c.src.ListPromptTemplates(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if gen == c.gen {
			c.prompts, c.loaded[keyPrompts] = list, true
		}
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		c.log.Error().Err(err).Msg("no se pudieron cargar las plantillas de prompt")
		return []entity.PromptTemplate{}
	}
	return append([]entity.PromptTemplate{}, v.([]entity.PromptTemplate)...)
}

// ERPTemplate busca una plantilla ERP por ID.
func (c *Catalog) ERPTemplate(ctx context.Context, id string) (*entity.ERPTemplate, bool) {
	for _, t := range c.ListERPTemplates(ctx) {
		if t.ID == id {
			return &t, true
		}
	}
	return nil, false
}

// PromptTemplate busca una plantilla de prompt por ID.
func (c *Catalog) PromptTemplate(ctx context.Context, id string) (*entity.PromptTemplate, bool) {
	for _, t := range c.ListPromptTemplates(ctx) {
		if t.ID == id {
			return &t, true
		}
	}
	return nil, false
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Render reemplaza los {placeholder} de body con values; los que no tienen valor quedan intactos.
func Render(body string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		if v, ok := values[strings.Trim(m, "{}")]; ok {
			return v
		}
		return m
	})
}

// Placeholders lista los nombres de placeholder de body, sin repetir y en orden de aparición.
func Placeholders(body string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
