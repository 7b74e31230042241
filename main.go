// Package main is projkit, the scaffolding and snapshot tool for the
// ImagenesPDF catalog project.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/config"
	"github.com/imagenespdf/projkit/internal/layout"
	"github.com/imagenespdf/projkit/internal/logging"
)

var (
	cfgFile string

	// Resolved in PersistentPreRunE.
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "projkit",
	Short: "Scaffold and snapshot the ImagenesPDF project",
	Long: `projkit creates the ImagenesPDF directory skeleton with a tree report,
prints the project tree, and concatenates the project's source and config
files into a single annotated memory document.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./projkit.toml or $HOME/.config/projkit/projkit.toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(initCmd, snapshotCmd, treeCmd)
}

// setup reads config and ENV variables and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	used, err := config.ReadInConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	cfg = config.Load(viper.GetViper())

	logger, err = logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// rootArg returns the target directory: the first argument or the working
// directory.
func rootArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return wd, nil
}

// loadLayout returns the configured layout file, or the built-in one.
func loadLayout() (layout.Layout, error) {
	if cfg.Layout == "" {
		return layout.Default(), nil
	}
	return layout.Load(cfg.Layout)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}
