package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/config"
	"github.com/imagenespdf/projkit/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [root]",
	Short: "Create the project skeleton and write the tree report",
	Long: `init creates every directory and empty file of the layout under root,
leaving existing files untouched unless --overwrite is given, and then writes
a tree report describing the result.`,
	Example: `projkit init ./ImagenesPDF
projkit init --overwrite --layout layout.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("overwrite", false, "Truncate files that already exist")
	viper.BindPFlag(config.KeyOverwrite, initCmd.Flags().Lookup("overwrite"))
	initCmd.Flags().String("layout", "", "YAML layout file (default is the built-in ImagenesPDF layout)")
	viper.BindPFlag(config.KeyLayout, initCmd.Flags().Lookup("layout"))
	initCmd.Flags().String("report", scaffold.ReportFile, "Tree report file name, written under root")
	viper.BindPFlag(config.KeyReport, initCmd.Flags().Lookup("report"))
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args)
	if err != nil {
		return err
	}
	l, err := loadLayout()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.With(zap.String("run", runID))
	log.Info("initializing project",
		zap.String("root", root),
		zap.Bool("overwrite", cfg.Overwrite),
		zap.Int("files", l.Structure.FileCount()),
	)

	res, err := scaffold.New(log).Initialize(root, l.Structure, l.EmptyDirs, cfg.Overwrite)
	if err != nil {
		return err
	}

	reportPath := filepath.Join(root, cfg.Report)
	tr, err := scaffold.WriteReport(reportPath, scaffold.ReportInput{
		Root:         root,
		RunID:        runID,
		GeneratedAt:  time.Now(),
		Overwrite:    cfg.Overwrite,
		Result:       res,
		Descriptions: l.Descriptions,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Estructura creada en %s\n", root)
	fmt.Fprintf(out, "  Creados: %d | Sobrescritos: %d | Omitidos: %d | Errores: %d\n",
		res.Created, res.Overwritten, res.Skipped, res.Errors)
	fmt.Fprintf(out, "  Directorios: %d | Archivos: %d\n", tr.Dirs, tr.Files)
	fmt.Fprintf(out, "  Reporte: %s\n", reportPath)
	for _, e := range res.Failed() {
		fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Err)
	}
	return nil
}
