package snapshot

import (
	"fmt"
	"os"
	"strings"
)

const separator = "================================================================================"

// body renders everything that precedes the statistics block.
func (d *Document) body() string {
	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString("MEMORIA DEL PROYECTO\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Generado: %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Raíz: %s\n", d.Root)
	if d.RunID != "" {
		fmt.Fprintf(&b, "Ejecución: %s\n", d.RunID)
	}
	if d.Git != "" {
		fmt.Fprintf(&b, "Git: %s\n", d.Git)
	}
	b.WriteString(separator + "\n\n")

	for _, s := range d.Sections {
		writeSection(&b, s)
	}
	return b.String()
}

func writeSection(b *strings.Builder, s Section) {
	b.WriteString(separator + "\n")
	fmt.Fprintf(b, "ARCHIVO: %s\n", s.RelPath)
	if s.HasDescription() {
		fmt.Fprintf(b, "PROPOSITO: %s\n", s.Description)
	}
	fmt.Fprintf(b, "TAMAÑO: %d bytes\n", s.Size)
	b.WriteString(separator + "\n")
	b.WriteString(s.Content)
	if !strings.HasSuffix(s.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (d *Document) statsBlock() string {
	cfg := d.Stats.Filter

	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString("ESTADÍSTICAS\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Archivos procesados: %d\n", d.Stats.Processed)
	fmt.Fprintf(&b, "Errores de lectura: %d\n", d.Stats.Errors)
	fmt.Fprintf(&b, "Total de caracteres: %d\n", d.Stats.Characters)
	fmt.Fprintf(&b, "Total de bytes: %d\n", d.Stats.TotalBytes)
	fmt.Fprintf(&b, "Extensiones incluidas: %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Fprintf(&b, "Archivos excluidos: %s\n", strings.Join(cfg.ExcludedNames, ", "))
	fmt.Fprintf(&b, "Directorios excluidos: %s\n", strings.Join(cfg.ExcludedDirs, ", "))
	if d.Stats.Gitignore {
		b.WriteString("Reglas .gitignore: SI\n")
	}
	b.WriteString(separator + "\n")
	return b.String()
}

// String renders the whole document.
func (d *Document) String() string {
	return d.body() + d.statsBlock()
}

// WriteFile writes the document to path, replacing any previous content.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(d.String()), 0o644); err != nil {
		return fmt.Errorf("error writing snapshot %s: %w", path, err)
	}
	return nil
}
