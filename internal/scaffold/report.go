package scaffold

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/layout"
	"github.com/imagenespdf/projkit/internal/logging"
	"github.com/imagenespdf/projkit/internal/tree"
)

// ReportFile is the default tree report name, written under the root.
const ReportFile = "tree.txt"

const separator = "================================================================================"

// ReportInput carries everything the tree report shows besides the tree.
type ReportInput struct {
	Root         string
	RunID        string
	GeneratedAt  time.Time
	Overwrite    bool
	Result       Result
	Descriptions layout.Descriptions
	// Logger receives a warning when the rendered and scanned counts differ.
	Logger *zap.Logger
}

// BuildReport renders root and assembles the report text. The footer counts
// come from a separate full scan of root.
func BuildReport(in ReportInput) (string, tree.Tree, error) {
	tr, err := tree.Render(in.Root, in.Descriptions)
	if err != nil {
		return "", tree.Tree{}, err
	}
	dirs, files, err := tree.Count(in.Root)
	if err != nil {
		return "", tree.Tree{}, err
	}
	if dirs != tr.Dirs || files != tr.Files {
		logging.OrNop(in.Logger).Warn("tree counts differ from scan",
			zap.Int("rendered_dirs", tr.Dirs), zap.Int("scanned_dirs", dirs),
			zap.Int("rendered_files", tr.Files), zap.Int("scanned_files", files),
		)
	}

	mode := "NO"
	if in.Overwrite {
		mode = "SI"
	}

	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString("ESTRUCTURA DEL PROYECTO\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Generado: %s\n", in.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Modo sobrescritura: %s\n", mode)
	fmt.Fprintf(&b, "Raíz: %s\n", in.Root)
	if in.RunID != "" {
		fmt.Fprintf(&b, "Ejecución: %s\n", in.RunID)
	}
	b.WriteString(separator + "\n\n")

	b.WriteString(tr.Text)
	b.WriteString("\n")

	b.WriteString(separator + "\n")
	b.WriteString("ESTADÍSTICAS\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Directorios: %d\n", dirs)
	fmt.Fprintf(&b, "Archivos: %d\n", files)
	fmt.Fprintf(&b, "Creados: %d | Sobrescritos: %d | Omitidos: %d | Errores: %d\n",
		in.Result.Created, in.Result.Overwritten, in.Result.Skipped, in.Result.Errors)

	if in.Descriptions.Len() > 0 {
		b.WriteString(separator + "\n")
		b.WriteString("DESCRIPCIONES\n")
		b.WriteString(separator + "\n")
		for _, key := range in.Descriptions.Keys() {
			desc, _ := in.Descriptions.Lookup(key)
			fmt.Fprintf(&b, "%s: %s\n", key, desc)
		}
	}

	return b.String(), tr, nil
}

// WriteReport builds the report and writes it to path, replacing any
// previous report.
func WriteReport(path string, in ReportInput) (tree.Tree, error) {
	text, tr, err := BuildReport(in)
	if err != nil {
		return tree.Tree{}, err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return tree.Tree{}, fmt.Errorf("error writing report %s: %w", path, err)
	}
	return tr, nil
}
