// Package config binds projkit settings from flags, environment and
// projkit.toml through viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/imagenespdf/projkit/internal/filter"
	"github.com/imagenespdf/projkit/internal/scaffold"
	"github.com/imagenespdf/projkit/internal/snapshot"
)

// Viper keys.
const (
	KeyOverwrite    = "overwrite"
	KeyLayout       = "layout"
	KeyReport       = "report"
	KeyOutput       = "output"
	KeyExtensions   = "extensions"
	KeyExcludeNames = "exclude_names"
	KeyExcludeDirs  = "exclude_dirs"
	KeyGitignore    = "gitignore"
	KeyLogLevel     = "log_level"
)

const (
	envPrefix = "PROJKIT"
	fileName  = "projkit"
	fileType  = "toml"
)

// Config is the resolved view of all settings.
type Config struct {
	Overwrite    bool
	Layout       string
	Report       string
	Output       string
	Extensions   []string
	ExcludeNames []string
	ExcludeDirs  []string
	Gitignore    bool
	LogLevel     string
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOverwrite, false)
	v.SetDefault(KeyLayout, "")
	v.SetDefault(KeyReport, scaffold.ReportFile)
	v.SetDefault(KeyOutput, snapshot.DefaultOutputFile)
	v.SetDefault(KeyExtensions, filter.DefaultExtensions)
	v.SetDefault(KeyExcludeNames, filter.DefaultExcludedNames)
	v.SetDefault(KeyExcludeDirs, filter.DefaultExcludedDirs)
	v.SetDefault(KeyGitignore, false)
	v.SetDefault(KeyLogLevel, "info")
}

// ReadInConfig wires environment lookup and reads cfgFile, or searches for
// projkit.toml in the working directory and ~/.config/projkit. It returns
// the file used, empty when none was found.
func ReadInConfig(v *viper.Viper, cfgFile string) (string, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

// Load resolves every key from v.
func Load(v *viper.Viper) Config {
	return Config{
		Overwrite:    v.GetBool(KeyOverwrite),
		Layout:       v.GetString(KeyLayout),
		Report:       v.GetString(KeyReport),
		Output:       v.GetString(KeyOutput),
		Extensions:   v.GetStringSlice(KeyExtensions),
		ExcludeNames: v.GetStringSlice(KeyExcludeNames),
		ExcludeDirs:  v.GetStringSlice(KeyExcludeDirs),
		Gitignore:    v.GetBool(KeyGitignore),
		LogLevel:     v.GetString(KeyLogLevel),
	}
}

// Filter returns the inclusion criteria.
func (c Config) Filter() filter.Config {
	return filter.Config{
		Extensions:    append([]string(nil), c.Extensions...),
		ExcludedNames: append([]string(nil), c.ExcludeNames...),
		ExcludedDirs:  append([]string(nil), c.ExcludeDirs...),
	}
}
