// Package pdf genera el resumen imprimible del onboarding de un tenant.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + Documento  │  Estado + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPRESA: Contacto / Sector / Dirección                      │
//	│  ADMINISTRADOR: Nombre + Email                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Asistente | Modelo | Temperatura | Activo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONFIGURACIÓN: ERP / Zona horaria / Idioma / Horario        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: URL de despliegue + QR                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/onboarding-api/internal/application/usecase"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.SummaryPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.SummaryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateTenantSummary genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateTenantSummary(_ context.Context, s usecase.TenantSummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de onboarding", true).
		WithAuthor(s.Tenant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(companyRow(s.Tenant, s.Address))
	m.AddRows(adminRow(s.Admin))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("ASISTENTES"))
	m.AddRows(tableHeaderRow())
	m.AddRows(assistantRows(s.Assistants)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(settingsRows(s)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(deploymentRows(s.DeploymentURL())...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + documento (izq) y estado + fecha (der).
func headerRow(s usecase.TenantSummary) core.Row {
	status, step := "sin progreso", "—"
	if s.Progress != nil {
		status = s.Progress.Status
		step = fmt.Sprintf("%d de %d", s.Progress.CurrentStep, s.Progress.TotalSteps)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.Tenant.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento: "+nonEmpty(s.Tenant.Document, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RESUMEN DE ONBOARDING", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(status)+" · paso "+step, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// companyRow: contacto y dirección de la empresa.
func companyRow(t entity.Tenant, addr *entity.Address) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("EMPRESA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Email: %s   |   Sitio: %s   |   Sector: %s",
				nonEmpty(t.Phone, "—"),
				nonEmpty(t.Email, "—"),
				nonEmpty(t.Website, "—"),
				nonEmpty(t.Sector, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New("Dirección: "+formatAddress(addr), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// adminRow: usuario administrador.
func adminRow(u *entity.User) core.Row {
	name, email := "—", "—"
	if u != nil {
		name, email = nonEmpty(u.Name, "—"), u.Email
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ADMINISTRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name+"   |   "+email, props.Text{Size: 9, Top: 6}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Asistente", 5, align.Left),
		h("Modelo", 3, align.Left),
		h("Temperatura", 2, align.Center),
		h("Activo", 2, align.Center),
	)
}

// assistantRows: una fila por asistente.
func assistantRows(list []entity.Assistant) []core.Row {
	if len(list) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin asistentes configurados", props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(list))
	for _, a := range list {
		enabled := "No"
		if a.Enabled {
			enabled = "Sí"
		}
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(a.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(a.Model, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.Temperature.StringFixed(2), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(enabled, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return rows
}

// settingsRows: integración ERP y ajustes avanzados como pares etiqueta/valor.
func settingsRows(s usecase.TenantSummary) []core.Row {
	pairs := [][2]string{{"Integración ERP", nonEmpty(s.ERPTemplateName, "—")}}
	if adv := s.Advanced; adv != nil {
		pairs = append(pairs,
			[2]string{"Zona horaria", nonEmpty(adv.Timezone, "—")},
			[2]string{"Idioma", nonEmpty(adv.Language, "—")},
			[2]string{"Horario de atención", nonEmpty(adv.BusinessHours, "—")},
			[2]string{"Webhook", nonEmpty(adv.WebhookURL, "—")},
			[2]string{"Chats simultáneos", fmt.Sprintf("%d", adv.MaxConcurrentChats)},
		)
	}
	rows := []core.Row{sectionTitle("CONFIGURACIÓN")}
	for _, p := range pairs {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(p[0]+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 0.5, Left: 1})),
			col.New(8).Add(text.New(p[1], props.Text{Size: 8, Top: 0.5, Color: colorGray})),
		))
	}
	return rows
}

// deploymentRows: URL publicada + QR, o aviso si aún no se desplegó.
func deploymentRows(url string) []core.Row {
	if url == "" {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("El tenant aún no ha sido desplegado.", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
			}),
		))}
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DESPLIEGUE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(45).Add(
			col.New(4).Add(code.NewQr(url, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para abrir\nel asistente publicado.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(url, props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 20, Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatAddress une las partes no vacías de la dirección.
func formatAddress(a *entity.Address) string {
	if a == nil {
		return "—"
	}
	street := strings.TrimSpace(strings.Join([]string{a.Street, a.Number}, " "))
	var parts []string
	for _, p := range []string{street, a.Complement, a.Neighborhood, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}
