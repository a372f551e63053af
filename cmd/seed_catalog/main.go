// seed_catalog genera el script SQL que puebla las tablas de catálogo (erp_templates y
// prompt_templates) a partir del seed embebido que usa el driver en memoria, para que ambos
// backends expongan las mismas plantillas.
//
// Uso: go run ./cmd/seed_catalog [ruta de salida]
// Por defecto escribe migrations/000002_seed_templates.up.sql.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
)

func main() {
	erp, prompts, err := memory.SeedTemplates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer seed: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "000002_seed_templates.up.sql")
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, erp, prompts); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d plantillas ERP, %d plantillas de prompt\n", outPath, len(erp), len(prompts))
}

// writeSQL escribe un INSERT idempotente por plantilla (ON CONFLICT actualiza el contenido).
func writeSQL(w io.Writer, erp []entity.ERPTemplate, prompts []entity.PromptTemplate) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de plantillas ERP y de prompt\n")
	b.WriteString("-- Generado por cmd/seed_catalog desde internal/infrastructure/memory/seed/templates.json\n\n")

	b.WriteString("-- 1. Plantillas ERP\n")
	for _, t := range erp {
		fields, err := json.Marshal(t.Fields)
		if err != nil {
			return fmt.Errorf("campos de %s: %w", t.Name, err)
		}
		commands, err := json.Marshal(t.Commands)
		if err != nil {
			return fmt.Errorf("comandos de %s: %w", t.Name, err)
		}
		b.WriteString("INSERT INTO erp_templates (id, name, description, fields, commands)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s')\n",
			t.ID, escapeSQL(t.Name), escapeSQL(t.Description), escapeSQL(string(fields)), escapeSQL(string(commands)))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,\n")
		b.WriteString("    fields = EXCLUDED.fields, commands = EXCLUDED.commands;\n\n")
	}

	b.WriteString("-- 2. Plantillas de prompt\n")
	for _, t := range prompts {
		b.WriteString("INSERT INTO prompt_templates (id, name, description, body)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s')\n",
			t.ID, escapeSQL(t.Name), escapeSQL(t.Description), escapeSQL(t.Body))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,\n")
		b.WriteString("    body = EXCLUDED.body;\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
