package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/config"
	"github.com/imagenespdf/projkit/internal/filter"
	"github.com/imagenespdf/projkit/internal/pdfexport"
	"github.com/imagenespdf/projkit/internal/picker"
	"github.com/imagenespdf/projkit/internal/snapshot"
)

var (
	interactiveMode bool
	pdfOutputFile   string
	copyToClipboard bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [root]",
	Short: "Concatenate the project's files into one memory document",
	Long: `snapshot walks root, keeps the files that match the extension whitelist
and are outside the excluded names and directories, and writes them in path
order, each with its description and size, to a single text document.`,
	Example: `projkit snapshot
projkit snapshot ./ImagenesPDF --gitignore --pdf memory.pdf
projkit snapshot --interactive --clipboard`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringP("output", "o", snapshot.DefaultOutputFile, "Output file name, written under root")
	viper.BindPFlag(config.KeyOutput, f.Lookup("output"))
	f.StringSlice("ext", filter.DefaultExtensions, "File extensions to include")
	viper.BindPFlag(config.KeyExtensions, f.Lookup("ext"))
	f.StringSlice("exclude-name", filter.DefaultExcludedNames, "File names to exclude")
	viper.BindPFlag(config.KeyExcludeNames, f.Lookup("exclude-name"))
	f.StringSlice("exclude-dir", filter.DefaultExcludedDirs, "Directory names to exclude (matched anywhere in the path)")
	viper.BindPFlag(config.KeyExcludeDirs, f.Lookup("exclude-dir"))
	f.Bool("gitignore", false, "Also respect root/.gitignore")
	viper.BindPFlag(config.KeyGitignore, f.Lookup("gitignore"))

	f.BoolVarP(&interactiveMode, "interactive", "i", false, "Pick the files with a fuzzy finder")
	f.StringVar(&pdfOutputFile, "pdf", "", "Also render the snapshot as PDF at this path")
	f.BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the snapshot to the clipboard")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}
	l, err := loadLayout()
	if err != nil {
		return err
	}

	var filterOpts []filter.Option
	if cfg.Gitignore {
		filterOpts = append(filterOpts, filter.WithGitignore(root))
	}
	fl, err := filter.New(cfg.Filter(), filterOpts...)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.With(zap.String("run", runID))
	opts := []snapshot.Option{
		snapshot.WithLogger(log),
		snapshot.WithOutputFile(cfg.Output),
		snapshot.WithRunID(runID),
	}
	if interactiveMode {
		opts = append(opts, snapshot.WithSelector(picker.New()))
	}

	out := cmd.OutOrStdout()
	doc, path, err := snapshot.New(fl, l.Descriptions, opts...).Run(root)
	if errors.Is(err, snapshot.ErrSelectionAborted) {
		fmt.Fprintln(out, "Selección interactiva cancelada.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Memoria generada en %s\n", path)
	fmt.Fprintf(out, "  Archivos procesados: %d | Errores: %d\n", doc.Processed(), doc.Errors())
	fmt.Fprintf(out, "  Caracteres: %s | Tamaño leído: %s\n",
		humanize.Comma(int64(doc.Stats.Characters)), humanize.Bytes(uint64(doc.Stats.TotalBytes)))

	if pdfOutputFile != "" {
		if err := pdfexport.Write(doc, pdfOutputFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "  PDF: %s\n", pdfOutputFile)
	}

	if copyToClipboard {
		if err := clipboard.WriteAll(doc.String()); err != nil {
			log.Warn("could not copy to clipboard", zap.Error(err))
		} else {
			fmt.Fprintln(out, "  Copiado al portapapeles.")
		}
	}
	return nil
}
