package catalog_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/catalog"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// sourceStub cuenta llamadas y puede fallar las primeras failFirst.
type sourceStub struct {
	calls     int32
	failFirst int32
	delay     time.Duration
}

func (s *sourceStub) ListERPTemplates(ctx context.Context) ([]entity.ERPTemplate, error) {
	n := atomic.AddInt32(&s.calls, 1)
	time.Sleep(s.delay)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= s.failFirst {
		return nil, errors.New("db caída")
	}
	return []entity.ERPTemplate{{ID: "erp-1", Name: "Bling"}}, nil
}

func (s *sourceStub) ListPromptTemplates(_ context.Context) ([]entity.PromptTemplate, error) {
	n := atomic.AddInt32(&s.calls, 1)
	if n <= s.failFirst {
		return nil, errors.New("db caída")
	}
	return []entity.PromptTemplate{{ID: "p-1", Name: "Atendimento", Body: "Hola {nombre}"}}, nil
}

func TestCatalog_CacheaCargaExitosa(t *testing.T) {
	src := &sourceStub{}
	c := catalog.New(src, zerolog.Nop())

	first := c.ListERPTemplates(context.Background())
	second := c.ListERPTemplates(context.Background())

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestCatalog_ErrorDevuelveVacioYNoSeCachea(t *testing.T) {
	src := &sourceStub{failFirst: 1}
	c := catalog.New(src, zerolog.Nop())

	list := c.ListPromptTemplates(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list = c.ListPromptTemplates(context.Background())
	assert.Len(t, list, 1, "el reintento debe cargar el catálogo")
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCatalog_CargasConcurrentesSeColapsan(t *testing.T) {
	src := &sourceStub{delay: 50 * time.Millisecond}
	c := catalog.New(src, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, c.ListERPTemplates(context.Background()), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestCatalog_Lookups(t *testing.T) {
	c := catalog.New(&sourceStub{}, zerolog.Nop())

	tpl, ok := c.ERPTemplate(context.Background(), "erp-1")
	require.True(t, ok)
	assert.Equal(t, "Bling", tpl.Name)

	_, ok = c.PromptTemplate(context.Background(), "no-existe")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	out := catalog.Render("Hola {nombre}, bienvenido a {empresa}. {otro}", map[string]string{
		"nombre":  "Ana",
		"empresa": "Acme",
	})
	assert.Equal(t, "Hola Ana, bienvenido a Acme. {otro}", out)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, catalog.Placeholders("{a} {b} {a}"))
	assert.Empty(t, catalog.Placeholders("sin marcas"))
}

func TestCatalog_CargaNoHeredaLaCancelacionDelLlamador(t *testing.T) {
	src := &sourceStub{}
	c := catalog.New(src, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list := c.ListERPTemplates(ctx)

	require.Len(t, list, 1)
	assert.Len(t, c.ListERPTemplates(context.Background()), 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls), "la carga quedó en caché")
}

func TestCatalog_InvalidateVuelveALaFuente(t *testing.T) {
	src := &sourceStub{}
	c := catalog.New(src, zerolog.Nop())

	require.Len(t, c.ListERPTemplates(context.Background()), 1)
	c.Invalidate()
	require.Len(t, c.ListERPTemplates(context.Background()), 1)

	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}
